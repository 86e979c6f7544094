package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short code is exceeded.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")
	// ErrLinkAccessDenied is returned when a user attempts to delete a link they do not own.
	ErrLinkAccessDenied = errors.New("link belongs to another user")
)

// LinkRepository defines the interface for working with links at the business logic layer.
type LinkRepository interface {
	// Create inserts a new shortened link owned by the given user.
	// Returns the created link model or an error if the operation fails.
	Create(ctx context.Context, userID int64, shortCode, originalURL string) (*models.Link, error)

	// GetByID retrieves a link by its id without changing it.
	// Returns the link model if found or an error if not found.
	GetByID(ctx context.Context, id int64) (*models.Link, error)

	// ListByUser retrieves all links owned by the given user.
	ListByUser(ctx context.Context, userID int64) ([]models.Link, error)

	// ResolveShortCode retrieves a link by its short code, atomically
	// incrementing the link's visit count and the owner's aggregate.
	ResolveShortCode(ctx context.Context, shortCode string) (*models.Link, error)

	// Delete removes a link by its id.
	// Returns an error if the operation fails.
	Delete(ctx context.Context, id int64) error
}

// LinkService provides methods to manage link shortening operations.
// The service uses a LinkRepository interface to interact with the underlying database.
type LinkService struct {
	repo            LinkRepository
	shortCodeLength int
}

// NewLinkService creates a new instance of LinkService with the provided repository and short code length.
func NewLinkService(repo LinkRepository, shortCodeLength int) *LinkService {
	return &LinkService{
		repo:            repo,
		shortCodeLength: shortCodeLength,
	}
}

// Shorten generates a short code for the provided original URL and stores
// the link for the given owner. Short codes collide with non-zero
// probability, so creation is retried with a fresh code on a uniqueness
// violation, up to a maximum number of attempts.
func (s *LinkService) Shorten(ctx context.Context, userID int64, originalURL string) (*models.Link, error) {
	const op = "service.LinkService.Shorten"
	const maxRetries = 5

	for i := 0; i < maxRetries; i++ {
		shortCode, err := gonanoid.New(s.shortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		link, err := s.repo.Create(ctx, userID, shortCode, originalURL)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// GetByID retrieves the link with the given id without recording a visit.
func (s *LinkService) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	const op = "service.LinkService.GetByID"

	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	return link, nil
}

// Resolve retrieves the original URL associated with the provided short
// code and records the visit on both the link and its owner.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "service.LinkService.Resolve"

	link, err := s.repo.ResolveShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	return link, nil
}

// Delete removes the link with the given id on behalf of userID.
// A link owned by another user is reported as ErrLinkAccessDenied, not
// as missing, so the caller can distinguish "exists but not yours".
func (s *LinkService) Delete(ctx context.Context, userID, id int64) error {
	const op = "service.LinkService.Delete"

	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	if link.UserID != userID {
		return fmt.Errorf("%s: %w", op, ErrLinkAccessDenied)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}
