// Package router wires the HTTP route table and implements the handlers of
// the web application: signup and login forms, the owner-scoped dashboard,
// link creation and deletion, and the public short link redirect.
package router

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/linkboard/internal/auth"
	"github.com/patric-chuzhbe/linkboard/internal/logger"
	"github.com/patric-chuzhbe/linkboard/internal/models"
	"github.com/patric-chuzhbe/linkboard/internal/service"
)

type authenticator interface {
	RequireLogin(h http.Handler) http.Handler
	EstablishSession(response http.ResponseWriter, request *http.Request, userID string) error
	ClearSession(response http.ResponseWriter, request *http.Request) error
}

// Router holds the dependencies of the HTTP handlers.
type Router struct {
	svc  *service.Service
	auth authenticator
}

// New returns the application's HTTP handler with all routes registered.
// The short code catch-all is registered last; chi resolves static segments
// before wildcards, so named routes are never shadowed by it.
func New(svc *service.Service, theAuth authenticator) http.Handler {
	myRouter := &Router{
		svc:  svc,
		auth: theAuth,
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)

	router.Get(`/signup`, myRouter.GetSignup)
	router.Post(`/signup`, myRouter.PostSignup)
	router.Get(`/login`, myRouter.GetLogin)
	router.Post(`/login`, myRouter.PostLogin)
	router.Get(`/logout`, myRouter.GetLogout)
	router.Get(`/ping`, myRouter.GetPing)

	router.With(theAuth.RequireLogin).Get(`/`, myRouter.GetDashboard)
	router.With(theAuth.RequireLogin).Post(`/shortUrls`, myRouter.PostShorturls)
	router.With(theAuth.RequireLogin).Post(`/delete/{linkID}`, myRouter.PostDelete)

	router.Get(`/{short}`, myRouter.GetRedirecttofullurl)

	return router
}

// GetSignup renders the signup form.
func (r *Router) GetSignup(response http.ResponseWriter, request *http.Request) {
	r.renderPage(response, "signup.html", nil)
}

// PostSignup creates a new account and redirects to the login page.
// Every failure, a taken username included, redirects back to the signup form
// with the cause logged server-side only.
func (r *Router) PostSignup(response http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Redirect(response, request, "/signup", http.StatusFound)
		return
	}

	_, err := r.svc.SignUp(
		request.Context(),
		request.PostFormValue("username"),
		request.PostFormValue("password"),
	)
	if err != nil {
		logger.Log.Infoln("signup rejected: ", zap.Error(err))
		http.Redirect(response, request, "/signup", http.StatusFound)
		return
	}

	http.Redirect(response, request, "/login", http.StatusFound)
}

// GetLogin renders the login form.
func (r *Router) GetLogin(response http.ResponseWriter, request *http.Request) {
	r.renderPage(response, "login.html", nil)
}

// PostLogin verifies the credentials and establishes a session.
// An unknown username and a wrong password produce the identical redirect
// back to the login form.
func (r *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Redirect(response, request, "/login", http.StatusFound)
		return
	}

	usr, err := r.svc.Login(
		request.Context(),
		request.PostFormValue("username"),
		request.PostFormValue("password"),
	)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			logger.Log.Debugln("Error calling the `r.svc.Login()`: ", zap.Error(err))
		}
		http.Redirect(response, request, "/login", http.StatusFound)
		return
	}

	if err := r.auth.EstablishSession(response, request, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `r.auth.EstablishSession()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/", http.StatusFound)
}

// GetLogout destroys the session and redirects to the login page.
func (r *Router) GetLogout(response http.ResponseWriter, request *http.Request) {
	if err := r.auth.ClearSession(response, request); err != nil {
		logger.Log.Debugln("Error calling the `r.auth.ClearSession()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/login", http.StatusFound)
}

// GetDashboard renders the authenticated user's links and nobody else's.
func (r *Router) GetDashboard(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	usr, err := r.svc.GetUser(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.svc.GetUser()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	links, err := r.svc.GetUserLinks(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `r.svc.GetUserLinks()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	page := dashboardPage{
		Username: usr.Username,
		Links:    make([]dashboardLink, 0, len(links)),
	}
	for _, link := range links {
		page.Links = append(page.Links, dashboardLink{
			ID:       link.ID,
			ShortURL: r.svc.GetShortURL(link.Short),
			Full:     link.Full,
			Clicks:   link.Clicks,
		})
	}

	r.renderPage(response, "dashboard.html", page)
}

// PostShorturls creates a short link owned by the authenticated user.
func (r *Router) PostShorturls(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := request.ParseForm(); err != nil {
		http.Redirect(response, request, "/", http.StatusFound)
		return
	}

	_, err := r.svc.CreateLink(request.Context(), request.PostFormValue("fullUrl"), userID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidURL) {
			logger.Log.Infoln("rejected link submission: ", zap.Error(err))
			http.Redirect(response, request, "/", http.StatusFound)
			return
		}
		logger.Log.Debugln("Error calling the `r.svc.CreateLink()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/", http.StatusFound)
}

// PostDelete removes a link after checking that the authenticated user owns
// it. No deletion without an owner match.
func (r *Router) PostDelete(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	err := r.svc.DeleteLink(request.Context(), chi.URLParam(request, "linkID"), userID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		response.WriteHeader(http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		response.WriteHeader(http.StatusForbidden)
	case err != nil:
		logger.Log.Debugln("Error calling the `r.svc.DeleteLink()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
	default:
		http.Redirect(response, request, "/", http.StatusFound)
	}
}

// GetRedirecttofullurl resolves a short code, counts the click, and redirects
// to the stored full URL.
func (r *Router) GetRedirecttofullurl(response http.ResponseWriter, request *http.Request) {
	short := chi.URLParam(request, "short")

	full, err := r.svc.Resolve(request.Context(), short)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.WriteHeader(http.StatusNotFound)
			return
		}
		logger.Log.Debugln("Error calling the `r.svc.Resolve()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, full, http.StatusFound)
}

// GetPing reports storage health.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.svc.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `r.svc.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (r *Router) renderPage(response http.ResponseWriter, name string, data any) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(response, name, data); err != nil {
		logger.Log.Debugln("Error calling the `pageTemplates.ExecuteTemplate()`: ", zap.Error(err))
	}
}
