// Package repository defines sentinel error values reused across multiple
// repositories. They let handlers distinguish failure scenarios without
// string matching: ErrNotFound maps to 404, ErrForbidden to 403 (e.g.
// replaying another user's search history), and the uniqueness errors to
// 409 on signup and profile edits.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrUsernameExists is returned when a signup or profile edit collides with
// an existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when a signup or profile edit collides with an
// existing email address.
var ErrEmailExists = errors.New("email already exists")
