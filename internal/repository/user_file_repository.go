package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aptitude-trainer/internal/repository/models"
)

// fileUserRepository is the flat-file variant of UserRepository: one JSON
// document holding every account, rewritten in full on each mutation. It
// serves deployments without a relational database, matching the
// spreadsheet-style store the relational backend replaces.
type fileUserRepository struct {
	mu   sync.RWMutex
	path string
	// byUsername owns the records; byID and byEmail are secondary indexes.
	byUsername map[string]*models.User
	byID       map[string]*models.User
	byEmail    map[string]*models.User
}

// NewFileUserRepository loads (or lazily creates) the user file at path.
// A corrupt file is an error: silently discarding account records would lock
// every user out without a trace.
func NewFileUserRepository(path string) (UserRepository, error) {
	r := &fileUserRepository{
		path:       path,
		byUsername: make(map[string]*models.User),
		byID:       make(map[string]*models.User),
		byEmail:    make(map[string]*models.User),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileUserRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // first run, store starts empty
		}
		return fmt.Errorf("failed to read user file %s: %w", r.path, err)
	}

	var records map[string]fileUserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to decode user file %s: %w", r.path, err)
	}
	for _, rec := range records {
		user := rec.toModel()
		r.index(user)
	}
	return nil
}

func (r *fileUserRepository) index(user *models.User) {
	r.byUsername[user.Username] = user
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
}

// save rewrites the whole file. Callers must hold the write lock.
func (r *fileUserRepository) save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create user store directory: %w", err)
	}

	records := make(map[string]fileUserRecord, len(r.byUsername))
	for username, user := range r.byUsername {
		records[username] = newFileUserRecord(user)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user file: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user file %s: %w", r.path, err)
	}
	return nil
}

func (r *fileUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return fmt.Errorf("user %q already exists", user.Username)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	copied := *user
	r.index(&copied)
	return r.save()
}

func (r *fileUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUser(r.byID[userID]), nil
}

func (r *fileUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUser(r.byUsername[username]), nil
}

func (r *fileUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUser(r.byEmail[email]), nil
}

func (r *fileUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	// Email may change; drop the stale index entry before re-indexing.
	delete(r.byEmail, existing.Email)

	user.UpdatedAt = time.Now()
	copied := *user
	copied.Username = existing.Username // usernames are immutable identifiers
	copied.CreatedAt = existing.CreatedAt
	r.index(&copied)
	return r.save()
}

// cloneUser shields the store's records from caller mutation.
func cloneUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	copied := *user
	return &copied
}

// fileUserRecord is the on-disk representation of one account.
type fileUserRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	DisplayName  string `json:"display_name,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func newFileUserRecord(user *models.User) fileUserRecord {
	return fileUserRecord{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName.String,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
}

func (rec fileUserRecord) toModel() *models.User {
	createdAt, _ := time.Parse(time.RFC3339, rec.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, rec.UpdatedAt)
	return &models.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		DisplayName:  sql.NullString{String: rec.DisplayName, Valid: rec.DisplayName != ""},
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}
