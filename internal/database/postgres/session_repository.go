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

type sessionRecord struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *sessionRecord) ToSession() *models.Session {
	return &models.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		Token:     r.Token,
		CreatedAt: r.CreatedAt,
	}
}

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) Create(ctx context.Context, userID int64, token string) (*models.Session, error) {
	const op = "database.postgres.SessionRepository.Create"

	rec := new(sessionRecord)
	query := `INSERT INTO sessions(user_id, token)
		VALUES ($1, $2)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, userID, token)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create session record: %w", op, err)
	}

	return rec.ToSession(), nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	const op = "database.postgres.SessionRepository.GetByToken"

	rec := new(sessionRecord)
	query := `SELECT * FROM sessions WHERE token = $1`

	err := r.db.GetContext(ctx, rec, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrSessionNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get session record: %w", op, err)
	}

	return rec.ToSession(), nil
}
