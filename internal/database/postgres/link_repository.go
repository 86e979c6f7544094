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

const urlsShortCodeConstraint = "urls_short_code_key"

type linkRecord struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	ShortCode   string    `db:"short_code"`
	OriginalURL string    `db:"original_url"`
	VisitCount  int64     `db:"visit_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	return &models.Link{
		ID:          r.ID,
		UserID:      r.UserID,
		ShortCode:   r.ShortCode,
		OriginalURL: r.OriginalURL,
		VisitCount:  r.VisitCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(ctx context.Context, userID int64, shortCode, originalURL string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO urls(user_id, short_code, original_url)
		VALUES ($1, $2, $3)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, userID, shortCode, originalURL)
	if err != nil {
		if isUniqueViolationError(err, urlsShortCodeConstraint) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByID"

	rec := new(linkRecord)
	query := `SELECT * FROM urls WHERE id = $1`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) ListByUser(ctx context.Context, userID int64) ([]models.Link, error) {
	const op = "database.postgres.LinkRepository.ListByUser"

	var recs []linkRecord
	query := `SELECT * FROM urls WHERE user_id = $1 ORDER BY id`

	err := r.db.SelectContext(ctx, &recs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list url records: %w", op, err)
	}

	links := make([]models.Link, 0, len(recs))
	for _, rec := range recs {
		links = append(links, *rec.ToLink())
	}

	return links, nil
}

// ResolveShortCode looks up a link by its short code and records the
// visit. Both counters are bumped with single increment statements
// inside one transaction, so concurrent resolutions never lose updates.
func (r *LinkRepository) ResolveShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.ResolveShortCode"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	rec := new(linkRecord)
	query := `UPDATE urls
		SET visit_count = visit_count + 1, updated_at = now()
		WHERE short_code = $1
		RETURNING *`

	err = tx.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update url record: %w", op, err)
	}

	query = `UPDATE users
		SET visit_count = visit_count + 1, updated_at = now()
		WHERE id = $1`

	if _, err := tx.ExecContext(ctx, query, rec.UserID); err != nil {
		return nil, fmt.Errorf("%s: failed to update user record: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) Delete(ctx context.Context, id int64) error {
	const op = "database.postgres.LinkRepository.Delete"

	query := `DELETE FROM urls WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete url record: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return nil
}
