package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
//
// Every read and mutation takes an owner filter supplied by the caller: an
// empty string means unrestricted, a user id restricts the operation to rows
// owned by that user. Repositories never decide the filter themselves — the
// service resolves it through the access policy. A row that exists but is
// outside the filter is indistinguishable from a missing row.

// DocumentPatch holds the fields of a partial document update. Nil fields
// are left untouched.
type DocumentPatch struct {
	Title       *string
	Description *string
}
