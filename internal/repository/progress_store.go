package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/logger"

	"go.uber.org/zap"
)

// ProgressStore owns every UserProgress record, keyed by username. The whole
// index lives in memory and is rewritten to one JSON file on every mutation;
// the access pattern is low-frequency interactive use, so full-file rewrites
// are fine. The mutex gives in-process exclusion only; concurrent processes
// sharing the file will lose writes to whichever rewrote last.
type ProgressStore struct {
	mu   sync.RWMutex
	path string
	data map[string]*domain.UserProgress
}

// NewProgressStore loads the durable file at path. A missing or corrupt file
// starts the store empty; corruption is logged but never fatal.
func NewProgressStore(path string) *ProgressStore {
	s := &ProgressStore{
		path: path,
		data: make(map[string]*domain.UserProgress),
	}
	s.load()
	return s
}

func (s *ProgressStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Get().Warn("Failed to read progress file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var records map[string]userProgressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Get().Warn("Progress file is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	for username, rec := range records {
		s.data[username] = rec.toDomain()
	}
}

// save rewrites the whole durable file. Directory-creation and write failures
// propagate: a persistence layer that fails silently would tell users their
// progress was saved when it was not. Callers must hold the write lock.
func (s *ProgressStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}

	records := make(map[string]userProgressRecord, len(s.data))
	for username, progress := range s.data {
		records[username] = newUserProgressRecord(progress)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress data: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write progress file %s: %w", s.path, err)
	}
	return nil
}

// GetUserProgress returns a deep copy of the user's progress record, creating
// and persisting an empty one on first access. Returning a copy keeps callers
// off the store's live records, which concurrent submissions mutate under the
// write lock.
func (s *ProgressStore) GetUserProgress(username string) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, ok := s.data[username]
	if !ok {
		progress = domain.NewUserProgress(username)
		s.data[username] = progress
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return progress.Clone(), nil
}

// UpdateUserProgress records a quiz submission for the user and category and
// persists the whole index.
func (s *ProgressStore) UpdateUserProgress(username, categorySlug string, attempted, correct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, ok := s.data[username]
	if !ok {
		progress = domain.NewUserProgress(username)
		s.data[username] = progress
	}
	progress.RecordSubmission(categorySlug, attempted, correct)
	return s.save()
}

// GetAllProgress returns a deep copy of the index; it is a snapshot, not a
// live view.
func (s *ProgressStore) GetAllProgress() map[string]*domain.UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string]*domain.UserProgress, len(s.data))
	for username, progress := range s.data {
		all[username] = progress.Clone()
	}
	return all
}

// Serialization records mirror the durable JSON shape. Timestamps are stored
// as ISO-8601 strings and round-trip to second precision.

type categoryProgressRecord struct {
	CategorySlug       string  `json:"category_slug"`
	QuestionsAttempted int     `json:"questions_attempted"`
	QuestionsCorrect   int     `json:"questions_correct"`
	LastAttempted      *string `json:"last_attempted"`
}

type activityRecord struct {
	Type         string `json:"type"`
	CategorySlug string `json:"category_slug"`
	Score        string `json:"score"`
	Timestamp    string `json:"timestamp"`
}

type userProgressRecord struct {
	Username   string                            `json:"username"`
	Categories map[string]categoryProgressRecord `json:"categories"`
	Activities []activityRecord                  `json:"activities"`
	CreatedAt  string                            `json:"created_at"`
	UpdatedAt  string                            `json:"updated_at"`
}

func newUserProgressRecord(progress *domain.UserProgress) userProgressRecord {
	categories := make(map[string]categoryProgressRecord, len(progress.Categories))
	for slug, cat := range progress.Categories {
		var lastAttempted *string
		if !cat.LastAttempted.IsZero() {
			formatted := cat.LastAttempted.Format(time.RFC3339)
			lastAttempted = &formatted
		}
		categories[slug] = categoryProgressRecord{
			CategorySlug:       cat.CategorySlug,
			QuestionsAttempted: cat.QuestionsAttempted,
			QuestionsCorrect:   cat.QuestionsCorrect,
			LastAttempted:      lastAttempted,
		}
	}

	activities := make([]activityRecord, len(progress.Activities))
	for i, act := range progress.Activities {
		activities[i] = activityRecord{
			Type:         act.Type,
			CategorySlug: act.CategorySlug,
			Score:        act.Score,
			Timestamp:    act.Timestamp.Format(time.RFC3339),
		}
	}

	return userProgressRecord{
		Username:   progress.Username,
		Categories: categories,
		Activities: activities,
		CreatedAt:  progress.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  progress.UpdatedAt.Format(time.RFC3339),
	}
}

func (rec userProgressRecord) toDomain() *domain.UserProgress {
	progress := domain.NewUserProgress(rec.Username)
	progress.CreatedAt = parseTimestamp(rec.CreatedAt)
	progress.UpdatedAt = parseTimestamp(rec.UpdatedAt)

	for slug, cat := range rec.Categories {
		entry := &domain.CategoryProgress{
			CategorySlug:       cat.CategorySlug,
			QuestionsAttempted: cat.QuestionsAttempted,
			QuestionsCorrect:   cat.QuestionsCorrect,
		}
		if cat.LastAttempted != nil {
			entry.LastAttempted = parseTimestamp(*cat.LastAttempted)
		} else {
			entry.LastAttempted = time.Time{}
		}
		progress.Categories[slug] = entry
	}

	for _, act := range rec.Activities {
		progress.Activities = append(progress.Activities, domain.Activity{
			Type:         act.Type,
			CategorySlug: act.CategorySlug,
			Score:        act.Score,
			Timestamp:    parseTimestamp(act.Timestamp),
		})
	}
	return progress
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
