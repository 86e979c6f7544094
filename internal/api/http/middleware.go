package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/models"
	"github.com/vadimbarashkov/linkrank/pkg/response"
)

type ctxKey int

const sessionCtxKey ctxKey = iota

// requireSession resolves the Authorization bearer token to a session
// and stores it in the request context. Requests without a valid token
// are rejected with 401.
func requireSession(authSvc AuthService) func(http.Handler) http.Handler {
	const op = "api.http.requireSession"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			session, err := authSvc.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, database.ErrSessionNotFound) {
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.UnauthorizedResponse)
					return
				}

				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext returns the session stored by requireSession.
// It must only be called from handlers behind that middleware.
func sessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionCtxKey).(*models.Session)
	return session
}
