package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserStoreWithMock(t *testing.T) (*UserPostgresStorage, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserPostgresStorage(db, logger), mock
}

var userColumns = []string{"id", "name", "email", "password_hash", "image", "created_at", "updated_at"}

func TestUserStorage_Create_UniqueViolationIsEmailTaken(t *testing.T) {
	store, mock := newUserStoreWithMock(t)
	user := &domain.User{
		Name:         "Alice",
		Email:        "a@b.com",
		PasswordHash: "hash",
	}

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: pgUniqueViolation})

	err := store.Create(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStorage_Create_AssignsID(t *testing.T) {
	store, mock := newUserStoreWithMock(t)
	user := &domain.User{
		Name:         "Alice",
		Email:        "a@b.com",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStorage_GetByEmail_NoRowsIsNotFound(t *testing.T) {
	store, mock := newUserStoreWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("ghost@b.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := store.GetByEmail(context.Background(), "ghost@b.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStorage_UpdateName_ReturnsUpdatedRow(t *testing.T) {
	store, mock := newUserStoreWithMock(t)
	userID := uuid.New()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE users\s+SET name = \$1, updated_at = now\(\)\s+WHERE id = \$2\s+RETURNING .+`).
		WithArgs("Alicia", userID).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(userID, "Alicia", "a@b.com", "hash", nil, now, now))

	user, err := store.UpdateName(context.Background(), userID, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
