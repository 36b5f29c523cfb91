// Package models defines the domain entities shared between the storage,
// service, and HTTP layers, together with the sentinel errors that carry
// the failure taxonomy across package boundaries.
package models

import (
	"errors"
	"time"
)

// User represents a registered account.
// It is created at signup and never mutated afterwards.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// Username is unique across all users; uniqueness is enforced by the store.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	// The plaintext password is never persisted.
	PasswordHash string
}

// ShortLink represents a single shortened URL owned by a user.
type ShortLink struct {
	// ID is the unique identifier of the link, meaning a UUID.
	ID string

	// Short is the unique short code resolving to Full.
	Short string

	// Full is the absolute URL the short code redirects to.
	Full string

	// OwnerID references the User that created the link.
	OwnerID string

	// Clicks counts successful redirects through this link.
	Clicks int64

	CreatedAt time.Time
}

// ErrNotFound is returned when a link cannot be found by ID or short code.
var ErrNotFound = errors.New("record not found")

// ErrForbidden is returned when a user attempts to delete a link they do not own.
var ErrForbidden = errors.New("operation not permitted for this user")

// ErrUsernameTaken is returned when signup hits the username uniqueness constraint.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password. Callers must not distinguish the two cases in their responses.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidURL is returned when a submitted URL is not a valid absolute
// http or https URL.
var ErrInvalidURL = errors.New("not a valid absolute URL")

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
