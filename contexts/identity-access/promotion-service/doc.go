// Package promotions wires the promotion request lifecycle through which a
// member asks to become a librarian.
package promotions
