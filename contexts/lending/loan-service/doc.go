// Package loans wires the loan lifecycle: borrowing validated works,
// renewing and returning them, and the read-only expiry sweep.
package loans
