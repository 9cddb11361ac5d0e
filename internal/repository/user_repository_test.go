package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"aptitude-trainer/internal/repository/models"
	"aptitude-trainer/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlite3")
	return NewSQLXUserRepository(db), mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "password_hash", "display_name", "created_at", "updated_at"}
}

func TestGetUserByUsernameFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows(userColumns()).
		AddRow("01ABC", "alice", "alice@example.com", "hash", "Alice", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = ?`)).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "01ABC", user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName.String)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = ?`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	user, err := repo.GetUserByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		ID:           "01ABC",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		DisplayName:  util.StringToNullString("Alice"),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.False(t, user.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	user := &models.User{ID: "missing", Email: "x@example.com"}
	err := repo.UpdateUser(context.Background(), user)
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
