package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/store"
)

// Deps holds all dependencies required to build the router.
type Deps struct {
	BearerAuth   *auth.BearerTokenMiddleware
	Tokens       *auth.TokenIssuer
	Hasher       *auth.PasswordHasher
	LinkStore    *store.LinkStore
	SessionStore *store.SessionStore
	UserStore    *store.UserStore
	Logger       logrus.FieldLogger

	// CORSOrigins are origin prefixes allowed to call the API.
	CORSOrigins []string
	// RateLimitRequests per RateLimitWindow are allowed per client IP on /api.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Now defaults to time.Now. Tests pin it.
	Now func() time.Time
}

// NewRouter builds the HTTP handler: /health, /metrics and the JSON API under /api.
func NewRouter(deps Deps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(deps.CORSOrigins).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"message":   "API is running",
			"timestamp": deps.Now().UTC(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/api", NewAPIRouter(deps))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	return r
}

// NewAPIRouter creates the chi sub-router mounted at /api.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)
	if deps.RateLimitRequests > 0 && deps.RateLimitWindow > 0 {
		r.Use(newIPRateLimiter(deps.RateLimitRequests, deps.RateLimitWindow).Middleware)
	}

	authH := &authAPIHandler{users: deps.UserStore, hasher: deps.Hasher, tokens: deps.Tokens, log: deps.Logger}
	registerAuthRoutes(r, authH)

	r.Group(func(r chi.Router) {
		r.Use(deps.BearerAuth.Authenticate)
		r.Post("/auth/logout", authH.Logout)
		registerLinkRoutes(r, &linksAPIHandler{links: deps.LinkStore, log: deps.Logger})
		registerSessionRoutes(r, &sessionsAPIHandler{sessions: deps.SessionStore, log: deps.Logger})
		registerExportRoutes(r, &exportAPIHandler{links: deps.LinkStore, log: deps.Logger, now: deps.Now})
	})

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

// corsHandler allows any origin that starts with one of the configured prefixes.
func corsHandler(prefixes []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			for _, p := range prefixes {
				if strings.HasPrefix(origin, p) {
					return true
				}
			}
			return false
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}
