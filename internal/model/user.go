package model

import "time"

// User mirrors the 'users' table.  PasswordHash never leaves the handler
// layer; response DTOs are built from the other fields.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	Image        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
