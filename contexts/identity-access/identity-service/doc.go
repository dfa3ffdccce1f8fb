// Package identity implements the identity and role provider of the library.
//
// Layering:
// - domain: users, role assignments, caller resolution rules, errors
// - application: register/login/grant commands and caller/role queries
// - ports: persistence, password hashing and token boundaries
// - adapters: HTTP handler, memory and postgres stores, JWT tokens, bcrypt hashing
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Roles are read from the store on every caller resolution, so a role granted
//   by another context is visible to the next request without reissuing tokens.
// - Other contexts reach this module only through ports wired in bootstrap.
package identity
