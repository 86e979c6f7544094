package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/service"
	"github.com/vadimbarashkov/linkrank/pkg/response"
)

// shortenRequest represents the request payload for shortening a URL.
type shortenRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// shortenResponse represents the response payload for a newly shortened URL.
type shortenResponse struct {
	ID       int64  `json:"id"`
	ShortURL string `json:"shortUrl"`
}

// linkResponse represents the response payload for a link lookup.
type linkResponse struct {
	ID       int64  `json:"id"`
	ShortURL string `json:"shortUrl"`
	URL      string `json:"url"`
}

// linkIDParam parses the {id} route parameter.
func linkIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// handleShortenURL handles POST requests to shorten a URL.
//
// The request must carry a valid bearer token and a syntactically valid
// URL. On success the created link's id and short code are returned.
func handleShortenURL(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleShortenURL"

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		session := sessionFromContext(r.Context())

		link, err := svc.Shorten(r.Context(), session.UserID, req.URL)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, shortenResponse{
			ID:       link.ID,
			ShortURL: link.ShortCode,
		})
	}
}

// handleGetURL handles GET requests to look up a link by id.
// No authentication is required and no visit is recorded.
func handleGetURL(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleGetURL"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := linkIDParam(r)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ResourceNotFoundResponse)
			return
		}

		link, err := svc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, linkResponse{
			ID:       link.ID,
			ShortURL: link.ShortCode,
			URL:      link.OriginalURL,
		})
	}
}

// handleOpenURL handles GET requests to resolve a short code.
//
// A successful resolution records the visit on the link and its owner
// and replies with a redirect to the original URL.
func handleOpenURL(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleOpenURL"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		link, err := svc.Resolve(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.Redirect(w, r, link.OriginalURL, http.StatusFound)
	}
}

// handleDeleteURL handles DELETE requests to remove a link.
//
// A link owned by another user is rejected with 401 rather than 404,
// matching the ownership semantics of the API.
func handleDeleteURL(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteURL"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := linkIDParam(r)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ResourceNotFoundResponse)
			return
		}

		session := sessionFromContext(r.Context())

		if err := svc.Delete(r.Context(), session.UserID, id); err != nil {
			switch {
			case errors.Is(err, database.ErrLinkNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, service.ErrLinkAccessDenied):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
