package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/models"
)

var sessionColumns = []string{"id", "user_id", "token", "created_at"}

func setupSessionRepository(t testing.TB) (*SessionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := setupDB(t)

	return NewSessionRepository(db), mock
}

func TestSessionRepository_Create(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupSessionRepository(t)

		mock.ExpectQuery(`INSERT INTO sessions`).
			WithArgs(int64(1), "token1").
			WillReturnError(errUnknown)

		session, err := repo.Create(context.TODO(), 1, "token1")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, session)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupSessionRepository(t)

		rows := sqlmock.NewRows(sessionColumns).
			AddRow(1, 1, "token1", time.Time{})

		mock.ExpectQuery(`INSERT INTO sessions`).
			WithArgs(int64(1), "token1").
			WillReturnRows(rows)

		wantSession := models.Session{
			ID:     1,
			UserID: 1,
			Token:  "token1",
		}

		session, err := repo.Create(context.TODO(), 1, "token1")

		assert.NoError(t, err)
		assert.NotNil(t, session)
		assert.Equal(t, wantSession, *session)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_GetByToken(t *testing.T) {
	t.Run("session not found", func(t *testing.T) {
		repo, mock := setupSessionRepository(t)

		mock.ExpectQuery(`SELECT \* FROM sessions`).
			WithArgs("token2").
			WillReturnError(sql.ErrNoRows)

		session, err := repo.GetByToken(context.TODO(), "token2")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrSessionNotFound)
		assert.Nil(t, session)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupSessionRepository(t)

		rows := sqlmock.NewRows(sessionColumns).
			AddRow(1, 1, "token1", time.Time{})

		mock.ExpectQuery(`SELECT \* FROM sessions`).
			WithArgs("token1").
			WillReturnRows(rows)

		session, err := repo.GetByToken(context.TODO(), "token1")

		assert.NoError(t, err)
		assert.NotNil(t, session)
		assert.Equal(t, int64(1), session.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
