// Package models contains the persistent data structures of the server.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt digest; the
// plaintext password is never stored. Username and email are unique across
// all users.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
