package service

import (
	"context"
	"fmt"

	"github.com/vadimbarashkov/linkrank/internal/models"
)

// DefaultRankingLimit bounds the leaderboard size when the caller doesn't ask for one.
const DefaultRankingLimit = 10

// UserProfileRepository defines the user read operations the profile and ranking views need.
type UserProfileRepository interface {
	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Rank aggregates per-user link and visit totals, ordered by visits descending.
	Rank(ctx context.Context, limit int) ([]models.UserRank, error)
}

// UserService serves the user profile view and the visit leaderboard.
type UserService struct {
	userRepo UserProfileRepository
	linkRepo LinkRepository
}

// NewUserService creates a new UserService with the provided repositories.
func NewUserService(userRepo UserProfileRepository, linkRepo LinkRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		linkRepo: linkRepo,
	}
}

// Profile retrieves the user together with all links they own.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, []models.Link, error) {
	const op = "service.UserService.Profile"

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	links, err := s.linkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return user, links, nil
}

// TopUsers returns the leaderboard, at most limit rows. Users with no
// links are included with zero counts. A non-positive limit falls back
// to DefaultRankingLimit.
func (s *UserService) TopUsers(ctx context.Context, limit int) ([]models.UserRank, error) {
	const op = "service.UserService.TopUsers"

	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	ranks, err := s.userRepo.Rank(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get ranking: %w", op, err)
	}

	return ranks, nil
}
