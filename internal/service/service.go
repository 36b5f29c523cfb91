// Package service implements the domain logic of the application: account
// registration and login, short link creation and deletion with ownership
// enforcement, and short code resolution with click counting.
package service

import (
	"context"
	"errors"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"

	"github.com/patric-chuzhbe/linkboard/internal/auth"
	"github.com/patric-chuzhbe/linkboard/internal/models"
)

// ShortCodeLength is the length of generated short codes.
const ShortCodeLength = 8

// triesToGenerateUniqueCode bounds the retry loop on short code collisions.
const triesToGenerateUniqueCode = 10

type userKeeper interface {
	CreateUser(ctx context.Context, usr *models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type linkKeeper interface {
	InsertLink(ctx context.Context, link *models.ShortLink) error
	GetLinkByID(ctx context.Context, linkID string) (*models.ShortLink, error)
	GetLinksByOwner(ctx context.Context, ownerID string) ([]models.ShortLink, error)
	DeleteLink(ctx context.Context, linkID string) error
	IsShortExists(ctx context.Context, short string) (bool, error)
}

type clickCounter interface {
	RegisterClick(ctx context.Context, short string) (string, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	linkKeeper
	clickCounter
	pinger
}

// ErrShortCodeSpaceExhausted is returned when the collision retry loop fails
// to find a free short code.
var ErrShortCodeSpaceExhausted = errors.New("the number of attempts to generate a unique short code has been exceeded")

// Service owns the domain operations over the storage backend.
type Service struct {
	db           storage
	shortURLBase string
	generateCode func() string
	validate     *validator.Validate
}

// New builds a Service over the given storage.
// shortURLBase is the public prefix of rendered short URLs.
func New(db storage, shortURLBase string) (*Service, error) {
	generateCode, err := nanoid.Standard(ShortCodeLength)
	if err != nil {
		return nil, err
	}

	return &Service{
		db:           db,
		shortURLBase: shortURLBase,
		generateCode: generateCode,
		validate:     validator.New(),
	}, nil
}

// SignUp hashes the password and creates the user record.
// Duplicate usernames surface as models.ErrUsernameTaken; empty credentials
// as models.ErrInvalidCredentials.
func (s *Service) SignUp(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", models.ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	return s.db.CreateUser(ctx, &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
	})
}

// Login verifies the credentials and returns the matching user.
// An unknown username and a wrong password both return
// models.ErrInvalidCredentials, so callers cannot distinguish them.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	usr, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(usr.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}

	return usr, nil
}

// CreateLink shortens fullURL on behalf of ownerID and returns the new link.
// fullURL must be a valid absolute http or https URL.
func (s *Service) CreateLink(ctx context.Context, fullURL, ownerID string) (*models.ShortLink, error) {
	if err := s.validate.Var(fullURL, "required,http_url"); err != nil {
		return nil, models.ErrInvalidURL
	}

	short, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	link := &models.ShortLink{
		ID:        uuid.New().String(),
		Short:     short,
		Full:      fullURL,
		OwnerID:   ownerID,
		Clicks:    0,
		CreatedAt: time.Now(),
	}
	if err := s.db.InsertLink(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// DeleteLink removes the link with the given ID on behalf of userID.
// Returns models.ErrNotFound for an unknown ID and models.ErrForbidden when
// the requester is not the owner; no deletion happens without an owner match.
func (s *Service) DeleteLink(ctx context.Context, linkID, userID string) error {
	link, err := s.db.GetLinkByID(ctx, linkID)
	if err != nil {
		return err
	}

	if link.OwnerID != userID {
		return models.ErrForbidden
	}

	return s.db.DeleteLink(ctx, linkID)
}

// GetUserLinks returns the links owned by userID and nothing else.
func (s *Service) GetUserLinks(ctx context.Context, userID string) ([]models.ShortLink, error) {
	return s.db.GetLinksByOwner(ctx, userID)
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.db.GetUserByID(ctx, userID)
}

// Resolve registers a click on the short code and returns the full URL to
// redirect to. Returns models.ErrNotFound for an unknown code.
func (s *Service) Resolve(ctx context.Context, short string) (string, error) {
	return s.db.RegisterClick(ctx, short)
}

// Ping checks the health of the database/storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetShortURL renders the public URL of a short code.
func (s *Service) GetShortURL(short string) string {
	return s.shortURLBase + "/" + short
}

func (s *Service) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < triesToGenerateUniqueCode; i++ {
		short := s.generateCode()
		exists, err := s.db.IsShortExists(ctx, short)
		if err != nil {
			return "", err
		}
		if !exists {
			return short, nil
		}
	}

	return "", ErrShortCodeSpaceExhausted
}
