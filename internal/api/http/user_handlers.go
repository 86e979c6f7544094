package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/linkrank/pkg/response"
)

// ownedLink represents one of the user's links in the profile payload.
type ownedLink struct {
	ID         int64  `json:"id"`
	ShortURL   string `json:"shortUrl"`
	URL        string `json:"url"`
	VisitCount int64  `json:"visitCount"`
}

// profileResponse represents the authenticated user's profile payload.
type profileResponse struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	VisitCount    int64       `json:"visitCount"`
	ShortenedURLs []ownedLink `json:"shortenedUrls"`
}

// rankEntry represents a single leaderboard row.
type rankEntry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LinksCount int64  `json:"linksCount"`
	VisitCount int64  `json:"visitCount"`
}

// handleUserProfile handles GET requests for the authenticated user's
// profile: name, aggregate visit count, and every link they own.
func handleUserProfile(svc UserService) http.HandlerFunc {
	const op = "api.http.handleUserProfile"

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		user, links, err := svc.Profile(r.Context(), session.UserID)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		resp := profileResponse{
			ID:            user.ID,
			Name:          user.Name,
			VisitCount:    user.VisitCount,
			ShortenedURLs: make([]ownedLink, 0, len(links)),
		}
		for _, link := range links {
			resp.ShortenedURLs = append(resp.ShortenedURLs, ownedLink{
				ID:         link.ID,
				ShortURL:   link.ShortCode,
				URL:        link.OriginalURL,
				VisitCount: link.VisitCount,
			})
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, resp)
	}
}

// handleRanking handles GET requests for the visit leaderboard.
// An optional limit query parameter caps the number of rows.
func handleRanking(svc UserService) http.HandlerFunc {
	const op = "api.http.handleRanking"

	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		ranks, err := svc.TopUsers(r.Context(), limit)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		resp := make([]rankEntry, 0, len(ranks))
		for _, rank := range ranks {
			resp = append(resp, rankEntry{
				ID:         rank.UserID,
				Name:       rank.Name,
				LinksCount: rank.LinksCount,
				VisitCount: rank.VisitCount,
			})
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, resp)
	}
}
