// Package mockstorage provides a testify-based mock implementation
// of the storage interface. It is used for unit testing HTTP handlers
// and the service layer by simulating storage behavior.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/linkboard/internal/models"
)

// StorageMock is a testify mock that implements the full storage interface.
//
// Use it in tests to simulate database behavior, including failures.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks user creation and returns a generated ID.
func (m *StorageMock) CreateUser(ctx context.Context, usr *models.User) (string, error) {
	args := m.Called(ctx, usr)
	return args.String(0), args.Error(1)
}

// GetUserByUsername mocks fetching a user by username.
func (m *StorageMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

// GetUserByID mocks fetching a user by their ID.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

// InsertLink mocks inserting a new short link.
func (m *StorageMock) InsertLink(ctx context.Context, link *models.ShortLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

// GetLinkByID mocks fetching a link by its ID.
func (m *StorageMock) GetLinkByID(ctx context.Context, linkID string) (*models.ShortLink, error) {
	args := m.Called(ctx, linkID)
	link, _ := args.Get(0).(*models.ShortLink)
	return link, args.Error(1)
}

// GetLinksByOwner mocks the owner-scoped link query.
func (m *StorageMock) GetLinksByOwner(ctx context.Context, ownerID string) ([]models.ShortLink, error) {
	args := m.Called(ctx, ownerID)
	links, _ := args.Get(0).([]models.ShortLink)
	return links, args.Error(1)
}

// DeleteLink mocks deleting a link by its ID.
func (m *StorageMock) DeleteLink(ctx context.Context, linkID string) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

// IsShortExists mocks the short code existence check.
func (m *StorageMock) IsShortExists(ctx context.Context, short string) (bool, error) {
	args := m.Called(ctx, short)
	return args.Bool(0), args.Error(1)
}

// RegisterClick mocks the atomic click increment.
func (m *StorageMock) RegisterClick(ctx context.Context, short string) (string, error) {
	args := m.Called(ctx, short)
	return args.String(0), args.Error(1)
}

// Ping mocks the pinger interface to simulate a health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
