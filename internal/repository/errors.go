// Package repository implements data access for users, profiles, articles
// and comments over MySQL.  The error values defined here are shared by
// every repository so handlers can map failures onto HTTP statuses without
// inspecting SQL details.
package repository

import "errors"

// ErrNotFound is returned when the target row (user, article, comment) does
// not exist.  Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, or tries to follow themselves.  Handlers
// translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ValidationError is a field-level rejection, surfaced to clients as a 422
// with the field name and message.  Repositories produce it when a named
// storage constraint is violated (see constraints.go).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
