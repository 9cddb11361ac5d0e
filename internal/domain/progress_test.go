package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategoryProgressCreatesLazily(t *testing.T) {
	progress := NewUserProgress("alice")

	cat := progress.GetCategoryProgress("numerical")
	require.NotNil(t, cat)
	assert.Equal(t, "numerical", cat.CategorySlug)
	assert.Equal(t, 0, cat.QuestionsAttempted)
	assert.Equal(t, 0, cat.QuestionsCorrect)
	assert.False(t, cat.LastAttempted.IsZero())

	// Second access returns the stored entry.
	assert.Same(t, cat, progress.GetCategoryProgress("numerical"))
	assert.Len(t, progress.Categories, 1)
}

func TestRecordSubmissionOverwrites(t *testing.T) {
	progress := NewUserProgress("alice")

	progress.RecordSubmission("numerical", 5, 3)
	progress.RecordSubmission("numerical", 4, 4)

	cat := progress.GetCategoryProgress("numerical")
	assert.Equal(t, 4, cat.QuestionsAttempted)
	assert.Equal(t, 4, cat.QuestionsCorrect)
}

func TestRecordSubmissionActivityLabel(t *testing.T) {
	progress := NewUserProgress("alice")
	progress.RecordSubmission("numerical", 5, 3)

	require.Len(t, progress.Activities, 1)
	act := progress.Activities[0]
	assert.Equal(t, ActivityQuizCompleted, act.Type)
	assert.Equal(t, "numerical", act.CategorySlug)
	assert.Equal(t, "3/5 (60.0%)", act.Score)
	assert.WithinDuration(t, time.Now(), act.Timestamp, time.Minute)
}

func TestRecordSubmissionZeroAttempted(t *testing.T) {
	progress := NewUserProgress("alice")
	progress.RecordSubmission("empty", 0, 0)

	require.Len(t, progress.Activities, 1)
	assert.Equal(t, "0/0 (0.0%)", progress.Activities[0].Score)
}

func TestActivitiesCappedAtTen(t *testing.T) {
	progress := NewUserProgress("alice")
	for i := 0; i < 15; i++ {
		progress.RecordSubmission(fmt.Sprintf("cat-%d", i), 5, i%6)
	}

	require.Len(t, progress.Activities, 10)
	// Oldest evicted first: the surviving entries are submissions 5..14.
	assert.Equal(t, "cat-5", progress.Activities[0].CategorySlug)
	assert.Equal(t, "cat-14", progress.Activities[9].CategorySlug)
}

func TestAccuracyPercentage(t *testing.T) {
	cat := NewCategoryProgress("numerical")
	assert.Equal(t, 0.0, cat.AccuracyPercentage())

	cat.QuestionsAttempted = 4
	cat.QuestionsCorrect = 3
	assert.Equal(t, 75.0, cat.AccuracyPercentage())
}

func TestCompletionPercentageCapped(t *testing.T) {
	cat := NewCategoryProgress("numerical")
	cat.QuestionsAttempted = 10
	assert.Equal(t, 50.0, cat.CompletionPercentage(20))

	cat.QuestionsAttempted = 50
	assert.Equal(t, 100.0, cat.CompletionPercentage(20))

	assert.Equal(t, 0.0, cat.CompletionPercentage(0))
}

func TestOverallEmptyUser(t *testing.T) {
	progress := NewUserProgress("alice")
	stats := progress.Overall()

	assert.Equal(t, 0, stats.TotalQuestionsAttempted)
	assert.Equal(t, 0, stats.TotalQuestionsCorrect)
	assert.Equal(t, 0.0, stats.OverallAccuracy)
	assert.Equal(t, 0, stats.CategoriesStarted)
	assert.Equal(t, 0, stats.TotalCategories)
}

func TestOverallAggregates(t *testing.T) {
	progress := NewUserProgress("alice")
	progress.RecordSubmission("numerical", 5, 3)
	progress.RecordSubmission("verbal", 5, 5)
	progress.GetCategoryProgress("untouched")

	stats := progress.Overall()
	assert.Equal(t, 10, stats.TotalQuestionsAttempted)
	assert.Equal(t, 8, stats.TotalQuestionsCorrect)
	assert.Equal(t, 80.0, stats.OverallAccuracy)
	assert.Equal(t, 2, stats.CategoriesStarted)
	assert.Equal(t, 3, stats.TotalCategories)
}
