// Package auth provides password hashing, session cookie management, and the
// middleware gate that keeps unauthenticated requests away from protected
// handlers.
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/linkboard/internal/logger"
	"github.com/patric-chuzhbe/linkboard/internal/session"
)

// Auth manages the session cookie and the authorization gate.
type Auth struct {
	// sessions maps opaque session IDs to user identities.
	sessions session.Store

	// cookieName is the name of the cookie holding the session ID.
	cookieName string
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// New creates a new Auth gate over the given session store.
func New(sessions session.Store, cookieName string) *Auth {
	return &Auth{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RequireLogin is an HTTP middleware that redirects requests without a valid
// session to the login page. The downstream handler is never invoked for an
// unauthenticated request. On success the user ID is stored in the request
// context under UserIDKey.
func (a *Auth) RequireLogin(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		cookie, err := request.Cookie(a.cookieName)
		if err != nil {
			http.Redirect(response, request, "/login", http.StatusFound)
			return
		}

		userID, err := a.sessions.Resolve(request.Context(), cookie.Value)
		if errors.Is(err, session.ErrNoSession) {
			http.Redirect(response, request, "/login", http.StatusFound)
			return
		}
		if err != nil {
			logger.Log.Debugln("Error calling the `a.sessions.Resolve()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		requestWithCtx := request.WithContext(ctx)

		h.ServeHTTP(response, requestWithCtx)
	}

	return http.HandlerFunc(middleware)
}

// EstablishSession creates a session for the user and sets the session cookie.
func (a *Auth) EstablishSession(
	response http.ResponseWriter,
	request *http.Request,
	userID string,
) error {
	sessionID, err := a.sessions.Create(request.Context(), userID)
	if err != nil {
		return err
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.cookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return nil
}

// ClearSession destroys the session referenced by the request's cookie, if
// any, and expires the cookie. It is idempotent.
func (a *Auth) ClearSession(response http.ResponseWriter, request *http.Request) error {
	cookie, err := request.Cookie(a.cookieName)
	if err == nil {
		if err := a.sessions.Destroy(request.Context(), cookie.Value); err != nil {
			return err
		}
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		},
	)

	return nil
}

// UserIDFromContext extracts the authenticated user's ID placed there by RequireLogin.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)

	return userID, ok && userID != ""
}
