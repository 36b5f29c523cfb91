package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkboard/internal/session"
)

const testCookieName = "linkboard_session"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)

	assert.True(t, CheckPassword(hash, "pw1"))
	assert.False(t, CheckPassword(hash, "pw2"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestRequireLoginWithoutCookie(t *testing.T) {
	theAuth := New(session.NewMemoryStore(time.Hour), testCookieName)

	downstreamCalled := false
	handler := theAuth.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downstreamCalled = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	result := w.Result()
	defer result.Body.Close()

	assert.Equal(t, http.StatusFound, result.StatusCode)
	assert.Equal(t, "/login", result.Header.Get("Location"))
	assert.False(t, downstreamCalled, "the downstream handler must not run for anonymous requests")
}

func TestRequireLoginWithStaleCookie(t *testing.T) {
	theAuth := New(session.NewMemoryStore(time.Hour), testCookieName)

	handler := theAuth.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("the downstream handler must not run for a stale session")
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: "destroyed-session"})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, request)

	result := w.Result()
	defer result.Body.Close()

	assert.Equal(t, http.StatusFound, result.StatusCode)
	assert.Equal(t, "/login", result.Header.Get("Location"))
}

func TestRequireLoginPassesUserIDThroughContext(t *testing.T) {
	sessions := session.NewMemoryStore(time.Hour)
	theAuth := New(sessions, testCookieName)

	sessionID, err := sessions.Create(context.Background(), "user-1")
	require.NoError(t, err)

	var seenUserID string
	handler := theAuth.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		seenUserID = userID
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: sessionID})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, request)

	result := w.Result()
	defer result.Body.Close()

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "user-1", seenUserID)
}

func TestEstablishAndClearSession(t *testing.T) {
	sessions := session.NewMemoryStore(time.Hour)
	theAuth := New(sessions, testCookieName)

	w := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/login", nil)

	require.NoError(t, theAuth.EstablishSession(w, request, "user-1"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	userID, err := sessions.Resolve(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	logoutRequest := httptest.NewRequest(http.MethodGet, "/logout", nil)
	logoutRequest.AddCookie(cookies[0])

	logoutRecorder := httptest.NewRecorder()
	require.NoError(t, theAuth.ClearSession(logoutRecorder, logoutRequest))

	_, err = sessions.Resolve(context.Background(), cookies[0].Value)
	assert.ErrorIs(t, err, session.ErrNoSession)

	clearedCookies := logoutRecorder.Result().Cookies()
	require.Len(t, clearedCookies, 1)
	assert.Negative(t, clearedCookies[0].MaxAge)
}
