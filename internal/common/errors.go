// Package common defines shared sentinel errors used across the client and
// server layers of MessagesVS. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Registration conflicts. The username check runs before the email
	// check, so ErrUsernameTaken wins when both collide.
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")

	// Login failures.
	ErrUnknownEmail  = errors.New("unknown email")
	ErrBadCredential = errors.New("invalid password")

	// Token errors (malformed/bad signature vs. expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Generic flow control.
	ErrInternal = errors.New("internal error")
)
