package policy

import "docvault/internal/model"

// Package policy encodes the role/ownership decision table for documents.
// It is pure: no I/O, no state, nothing but the inputs decides the outcome.
//
// Two kinds of denial exist and must stay distinguishable to callers:
//   - a role that may not attempt an operation at all (Allows returns false),
//     which the service reports as forbidden;
//   - an ownership mismatch, which is expressed through the owner filter so
//     the repository simply does not see the row and the caller gets the
//     same not-found outcome as for a nonexistent id.

// Operation is a document operation subject to access control.
type Operation int

const (
	OpCreate Operation = iota
	OpList
	OpRead
	OpUpdate
	OpDelete
	OpDownload
)

// Actor is the authenticated identity a request acts as. It is resolved by
// the HTTP layer from a validated bearer token and trusted as-is here.
type Actor struct {
	ID   string
	Role model.Role
}

// Allows reports whether the role may attempt the operation at all,
// regardless of which resource it targets.
func Allows(role model.Role, op Operation) bool {
	switch role {
	case model.RoleAdmin, model.RoleEditor:
		return true
	case model.RoleViewer:
		return op == OpList || op == OpRead || op == OpDownload
	}
	return false
}

// Scope resolves the owner filter for single-resource operations
// (read, update, delete, download). Admin sees everything; everyone else is
// restricted to rows they own. An empty string means unrestricted.
func Scope(actor Actor) string {
	if actor.Role == model.RoleAdmin {
		return ""
	}
	return actor.ID
}

// ListScope resolves the owner filter for listing. Admin may narrow results
// to one owner via requestedOwnerID (empty = all owners); for every other
// role the filter is forced to the actor's own id no matter what was asked.
func ListScope(actor Actor, requestedOwnerID string) string {
	if actor.Role == model.RoleAdmin {
		return requestedOwnerID
	}
	return actor.ID
}
