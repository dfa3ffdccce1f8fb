// Package works implements the moderation pipeline of submitted works.
//
// A work is submitted by a member, taken into review by a librarian and then
// either validated into a destination collection or rejected. Validated and
// rejected works are terminal. Content may be re-converted from its source
// document while the work is still awaiting a decision.
package works
