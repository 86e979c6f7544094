// Package http provides the HTTP delivery layer for the link shortening
// service: route registration, bearer-token session middleware, and the
// request handlers.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/linkrank/internal/models"
)

// AuthService defines the account and session operations the handlers depend on.
type AuthService interface {
	// Register creates a new account with a salted password hash.
	Register(ctx context.Context, name, email, password string) (*models.User, error)

	// Authenticate verifies credentials and mints a new session token.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// VerifyToken resolves a bearer token to its session.
	VerifyToken(ctx context.Context, token string) (*models.Session, error)
}

// LinkService defines the link shortening operations the handlers depend on.
type LinkService interface {
	// Shorten creates a short code for the original URL on behalf of the user.
	Shorten(ctx context.Context, userID int64, originalURL string) (*models.Link, error)

	// GetByID retrieves a link without recording a visit.
	GetByID(ctx context.Context, id int64) (*models.Link, error)

	// Resolve retrieves the link for a short code and records the visit.
	Resolve(ctx context.Context, shortCode string) (*models.Link, error)

	// Delete removes the link if it belongs to the user.
	Delete(ctx context.Context, userID, id int64) error
}

// UserService defines the profile and leaderboard operations the handlers depend on.
type UserService interface {
	// Profile retrieves the user together with all links they own.
	Profile(ctx context.Context, userID int64) (*models.User, []models.Link, error)

	// TopUsers returns the visit leaderboard, at most limit rows.
	TopUsers(ctx context.Context, limit int) ([]models.UserRank, error)
}

// getValidate initializes a validator that reports fields by their JSON tag names.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
func NewRouter(logger *httplog.Logger, authSvc AuthService, linkSvc LinkService, userSvc UserService) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	validate := getValidate()
	auth := requireSession(authSvc)

	r.Get("/ping", handlePing)

	r.Post("/signUp", handleSignUp(authSvc, validate))
	r.Post("/signIn", handleSignIn(authSvc, validate))

	r.Route("/urls", func(r chi.Router) {
		r.With(auth).Post("/shorten", handleShortenURL(linkSvc, validate))
		r.Get("/open/{shortCode}", handleOpenURL(linkSvc))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleGetURL(linkSvc))
			r.With(auth).Delete("/", handleDeleteURL(linkSvc))
		})
	})

	r.With(auth).Get("/users/me", handleUserProfile(userSvc))
	r.Get("/ranking", handleRanking(userSvc))

	return r
}
