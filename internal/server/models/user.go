// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash holds an encoded argon2id hash.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	FailedLogins int
	IsLocked     bool
	LastFailedAt *time.Time
	CreatedAt    time.Time
}
