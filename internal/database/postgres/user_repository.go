package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/models"
)

const usersEmailConstraint = "users_email_key"

type userRecord struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	VisitCount   int64     `db:"visit_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *userRecord) ToUser() *models.User {
	return &models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		VisitCount:   r.VisitCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	const op = "database.postgres.UserRepository.Create"

	rec := new(userRecord)
	query := `INSERT INTO users(name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, name, email, passwordHash)
	if err != nil {
		if isUniqueViolationError(err, usersEmailConstraint) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrEmailExists)
		}

		return nil, fmt.Errorf("%s: failed to create user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByEmail"

	rec := new(userRecord)
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, rec, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "database.postgres.UserRepository.GetByID"

	rec := new(userRecord)
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get user record: %w", op, err)
	}

	return rec.ToUser(), nil
}

// Rank aggregates the leaderboard: for each user, the number of links
// they own and the sum of those links' visit counts. Users without
// links are included with zero counts. Ties on visit count are broken
// by ascending user id so the ordering is deterministic.
func (r *UserRepository) Rank(ctx context.Context, limit int) ([]models.UserRank, error) {
	const op = "database.postgres.UserRepository.Rank"

	var recs []struct {
		UserID     int64  `db:"id"`
		Name       string `db:"name"`
		LinksCount int64  `db:"links_count"`
		VisitCount int64  `db:"visit_count"`
	}
	query := `SELECT users.id, users.name,
			COUNT(urls.id) AS links_count,
			COALESCE(SUM(urls.visit_count), 0) AS visit_count
		FROM users
		LEFT JOIN urls ON urls.user_id = users.id
		GROUP BY users.id, users.name
		ORDER BY visit_count DESC, users.id
		LIMIT $1`

	err := r.db.SelectContext(ctx, &recs, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get ranking records: %w", op, err)
	}

	ranks := make([]models.UserRank, 0, len(recs))
	for _, rec := range recs {
		ranks = append(ranks, models.UserRank{
			UserID:     rec.UserID,
			Name:       rec.Name,
			LinksCount: rec.LinksCount,
			VisitCount: rec.VisitCount,
		})
	}

	return ranks, nil
}
