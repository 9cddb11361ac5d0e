package repository

import (
	"context"
	"path/filepath"
	"testing"

	"aptitude-trainer/internal/repository/models"
	"aptitude-trainer/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T) (UserRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	repo, err := NewFileUserRepository(path)
	require.NoError(t, err)
	return repo, path
}

func testUser() *models.User {
	return &models.User{
		ID:           util.NewULID(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
}

func TestFileRepoCreateAndGet(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	user := testUser()
	require.NoError(t, repo.CreateUser(ctx, user))

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.GetUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFileRepoDuplicateUsername(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, testUser()))

	dup := testUser()
	dup.ID = util.NewULID()
	require.Error(t, repo.CreateUser(ctx, dup))
}

func TestFileRepoPersistsAcrossReload(t *testing.T) {
	repo, path := newFileRepo(t)
	ctx := context.Background()
	user := testUser()
	require.NoError(t, repo.CreateUser(ctx, user))

	reloaded, err := NewFileUserRepository(path)
	require.NoError(t, err)

	found, err := reloaded.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.PasswordHash, found.PasswordHash)
	assert.Equal(t, user.CreatedAt.Unix(), found.CreatedAt.Unix())
}

func TestFileRepoUpdateUser(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	user := testUser()
	require.NoError(t, repo.CreateUser(ctx, user))

	user.Email = "new@example.com"
	user.DisplayName = util.StringToNullString("Alice B")
	require.NoError(t, repo.UpdateUser(ctx, user))

	// Old email index entry must be gone, new one present.
	old, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, old)

	updated, err := repo.GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Alice B", updated.DisplayName.String)
}

func TestFileRepoUpdateUnknownUser(t *testing.T) {
	repo, _ := newFileRepo(t)
	user := testUser()
	require.Error(t, repo.UpdateUser(context.Background(), user))
}

func TestFileRepoReturnsCopies(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, testUser()))

	first, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	first.Email = "mutated@example.com"

	second, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", second.Email)
}
