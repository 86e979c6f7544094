package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/models"
)

var (
	errUnknown      = errors.New("unknown error")
	errAffectedRows = errors.New("affected rows error")
)

var userColumns = []string{"id", "name", "email", "password_hash", "visit_count", "created_at", "updated_at"}

func setupDB(t testing.TB) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")

	t.Cleanup(func() {
		mockDB.Close()
		db.Close()
	})

	return db, mock
}

func setupUserRepository(t testing.TB) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := setupDB(t)

	return NewUserRepository(db), mock
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("email exists", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ann", "a@x.com", "hash1").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode, ConstraintName: usersEmailConstraint})

		user, err := repo.Create(context.TODO(), "Ann", "a@x.com", "hash1")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrEmailExists)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ann", "a@x.com", "hash1").
			WillReturnError(errUnknown)

		user, err := repo.Create(context.TODO(), "Ann", "a@x.com", "hash1")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "Ann", "a@x.com", "hash1", 0, time.Time{}, time.Time{})

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ann", "a@x.com", "hash1").
			WillReturnRows(rows)

		wantUser := models.User{
			ID:           1,
			Name:         "Ann",
			Email:        "a@x.com",
			PasswordHash: "hash1",
		}

		user, err := repo.Create(context.TODO(), "Ann", "a@x.com", "hash1")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, wantUser, *user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT \* FROM users`).
			WithArgs("b@x.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail(context.TODO(), "b@x.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "Ann", "a@x.com", "hash1", 2, time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT \* FROM users`).
			WithArgs("a@x.com").
			WillReturnRows(rows)

		user, err := repo.GetByEmail(context.TODO(), "a@x.com")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, int64(2), user.VisitCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT \* FROM users`).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(context.TODO(), 2)

		assert.Error(t, err)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(userColumns).
			AddRow(1, "Ann", "a@x.com", "hash1", 0, time.Time{}, time.Time{})

		mock.ExpectQuery(`SELECT \* FROM users`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		user, err := repo.GetByID(context.TODO(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "Ann", user.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Rank(t *testing.T) {
	rankColumns := []string{"id", "name", "links_count", "visit_count"}

	t.Run("unknown error", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		mock.ExpectQuery(`SELECT users.id, users.name`).
			WithArgs(10).
			WillReturnError(errUnknown)

		ranks, err := repo.Rank(context.TODO(), 10)

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, ranks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepository(t)

		rows := sqlmock.NewRows(rankColumns).
			AddRow(2, "Bob", 3, 7).
			AddRow(1, "Ann", 0, 0)

		mock.ExpectQuery(`SELECT users.id, users.name`).
			WithArgs(10).
			WillReturnRows(rows)

		wantRanks := []models.UserRank{
			{UserID: 2, Name: "Bob", LinksCount: 3, VisitCount: 7},
			{UserID: 1, Name: "Ann", LinksCount: 0, VisitCount: 0},
		}

		ranks, err := repo.Rank(context.TODO(), 10)

		assert.NoError(t, err)
		assert.Equal(t, wantRanks, ranks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
