package domain

import (
	"fmt"
	"time"
)

// ActivityQuizCompleted is the only activity type recorded today.
const ActivityQuizCompleted = "quiz_completed"

// maxActivities caps the per-user activity history; oldest entries are
// evicted first.
const maxActivities = 10

// Activity is a timestamped log entry summarizing one completed quiz
// submission.
type Activity struct {
	Type         string
	CategorySlug string
	Score        string // formatted as "3/5 (60.0%)"
	Timestamp    time.Time
}

// CategoryProgress holds a user's most recent results for one category.
// Each submission overwrites the stored counts; there are no lifetime
// cumulative totals.
type CategoryProgress struct {
	CategorySlug       string
	QuestionsAttempted int
	QuestionsCorrect   int
	LastAttempted      time.Time
}

// NewCategoryProgress returns a zeroed progress entry for the category.
func NewCategoryProgress(categorySlug string) *CategoryProgress {
	return &CategoryProgress{
		CategorySlug:  categorySlug,
		LastAttempted: time.Now(),
	}
}

// AccuracyPercentage is correct/attempted as a percentage, 0 when nothing
// has been attempted.
func (c *CategoryProgress) AccuracyPercentage() float64 {
	if c.QuestionsAttempted == 0 {
		return 0
	}
	return float64(c.QuestionsCorrect) / float64(c.QuestionsAttempted) * 100
}

// CompletionPercentage reports attempted questions against the assumed
// category size, capped at 100. The size is a configured constant, not the
// actual question count of the category document.
func (c *CategoryProgress) CompletionPercentage(categorySize int) float64 {
	if categorySize <= 0 {
		return 0
	}
	pct := float64(c.QuestionsAttempted) / float64(categorySize) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// UserProgress tracks one user's progress across all categories plus a
// bounded activity history.
type UserProgress struct {
	Username   string
	Categories map[string]*CategoryProgress
	Activities []Activity
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUserProgress returns an empty progress record for the user.
func NewUserProgress(username string) *UserProgress {
	now := time.Now()
	return &UserProgress{
		Username:   username,
		Categories: make(map[string]*CategoryProgress),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// GetCategoryProgress returns the progress entry for the category, creating
// and storing a zeroed one on first access.
func (u *UserProgress) GetCategoryProgress(categorySlug string) *CategoryProgress {
	if u.Categories == nil {
		u.Categories = make(map[string]*CategoryProgress)
	}
	progress, ok := u.Categories[categorySlug]
	if !ok {
		progress = NewCategoryProgress(categorySlug)
		u.Categories[categorySlug] = progress
	}
	return progress
}

// RecordSubmission overwrites the category's stored counts with the latest
// submission's totals, stamps the update times, and appends one activity
// entry. The activity history keeps only the most recent entries.
func (u *UserProgress) RecordSubmission(categorySlug string, attempted, correct int) {
	now := time.Now()

	progress := u.GetCategoryProgress(categorySlug)
	progress.QuestionsAttempted = attempted
	progress.QuestionsCorrect = correct
	progress.LastAttempted = now
	u.UpdatedAt = now

	accuracy := 0.0
	if attempted > 0 {
		accuracy = float64(correct) / float64(attempted) * 100
	}
	u.Activities = append(u.Activities, Activity{
		Type:         ActivityQuizCompleted,
		CategorySlug: categorySlug,
		Score:        fmt.Sprintf("%d/%d (%.1f%%)", correct, attempted, accuracy),
		Timestamp:    now,
	})
	if len(u.Activities) > maxActivities {
		u.Activities = u.Activities[len(u.Activities)-maxActivities:]
	}
}

// Clone returns a deep copy that readers can use without coordinating with
// concurrent writers to the original.
func (u *UserProgress) Clone() *UserProgress {
	copied := &UserProgress{
		Username:   u.Username,
		Categories: make(map[string]*CategoryProgress, len(u.Categories)),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	for slug, cat := range u.Categories {
		entry := *cat
		copied.Categories[slug] = &entry
	}
	if len(u.Activities) > 0 {
		copied.Activities = append([]Activity(nil), u.Activities...)
	}
	return copied
}

// OverallProgress is the derived cross-category aggregate. It is computed on
// demand and never stored.
type OverallProgress struct {
	TotalQuestionsAttempted int
	TotalQuestionsCorrect   int
	OverallAccuracy         float64
	CategoriesStarted       int
	TotalCategories         int
}

// Overall aggregates all category entries. A user with no categories yields
// the zero value.
func (u *UserProgress) Overall() OverallProgress {
	var stats OverallProgress
	for _, cat := range u.Categories {
		stats.TotalQuestionsAttempted += cat.QuestionsAttempted
		stats.TotalQuestionsCorrect += cat.QuestionsCorrect
		stats.TotalCategories++
		if cat.QuestionsAttempted > 0 {
			stats.CategoriesStarted++
		}
	}
	if stats.TotalQuestionsAttempted > 0 {
		stats.OverallAccuracy = float64(stats.TotalQuestionsCorrect) / float64(stats.TotalQuestionsAttempted) * 100
	}
	return stats
}
