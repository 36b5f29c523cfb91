// Package storage declares the interface implemented by every storage
// backend of the application.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/linkboard/internal/models"
)

// Storage is the full set of persistence operations required by the
// application. The postgresdb, jsondb and memorystorage packages provide
// implementations.
type Storage interface {
	// CreateUser persists a new user and returns its generated ID.
	// A username uniqueness violation is reported as models.ErrUsernameTaken.
	CreateUser(ctx context.Context, usr *models.User) (string, error)

	// GetUserByUsername returns models.ErrNotFound for an unknown username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns models.ErrNotFound for an unknown ID.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// InsertLink persists a new short link with its clicks counter as given.
	InsertLink(ctx context.Context, link *models.ShortLink) error

	// GetLinkByID returns models.ErrNotFound for an unknown ID.
	GetLinkByID(ctx context.Context, linkID string) (*models.ShortLink, error)

	// GetLinksByOwner returns only the links whose owner matches ownerID.
	GetLinksByOwner(ctx context.Context, ownerID string) ([]models.ShortLink, error)

	// DeleteLink removes the link; models.ErrNotFound if it does not exist.
	DeleteLink(ctx context.Context, linkID string) error

	// IsShortExists reports whether a short code is already in use.
	IsShortExists(ctx context.Context, short string) (bool, error)

	// RegisterClick atomically increments the click counter of the link with
	// the given short code and returns its full URL.
	// Returns models.ErrNotFound for an unknown code.
	RegisterClick(ctx context.Context, short string) (string, error)

	Ping(ctx context.Context) error

	Close() error
}
