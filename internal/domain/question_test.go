package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleQuestions() []Question {
	return []Question{
		{Text: "Q1", Options: []Option{{Key: "A", Text: "1"}, {Key: "B", Text: "2"}}, Answer: "B"},
		{Text: "Q2", Options: []Option{{Key: "A", Text: "1"}, {Key: "B", Text: "2"}}, Answer: "A"},
		{Text: "Q3", Options: []Option{{Key: "C", Text: "3"}, {Key: "D", Text: "4"}}, Answer: "D"},
	}
}

func TestComplete(t *testing.T) {
	options := []Option{{Key: "A", Text: "1"}, {Key: "B", Text: "2"}}

	assert.True(t, Question{Text: "Q", Options: options, Answer: "A"}.Complete())
	assert.False(t, Question{Options: options, Answer: "A"}.Complete())
	assert.False(t, Question{Text: "Q", Answer: "A"}.Complete())
	assert.False(t, Question{Text: "Q", Options: options}.Complete())
	// The answer key must name one of the present options.
	assert.False(t, Question{Text: "Q", Options: options, Answer: "D"}.Complete())
}

func TestScoreNoSubmissions(t *testing.T) {
	correct, total := Score(sampleQuestions(), map[int]string{})
	assert.Equal(t, 0, correct)
	assert.Equal(t, 3, total)
}

func TestScoreAllCorrect(t *testing.T) {
	correct, total := Score(sampleQuestions(), map[int]string{0: "B", 1: "A", 2: "D"})
	assert.Equal(t, 3, correct)
	assert.Equal(t, 3, total)
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	correct, _ := Score(sampleQuestions(), map[int]string{0: "b", 1: " a ", 2: "d"})
	assert.Equal(t, 3, correct)
}

func TestScoreMissingAndExtraIndices(t *testing.T) {
	// A missing index counts as incorrect; indices outside the question
	// range are ignored. Total always reflects the question count.
	correct, total := Score(sampleQuestions(), map[int]string{1: "A", 7: "B", -1: "A"})
	assert.Equal(t, 1, correct)
	assert.Equal(t, 3, total)
}

func TestScoreEmptyQuestionSet(t *testing.T) {
	correct, total := Score(nil, map[int]string{0: "A"})
	assert.Equal(t, 0, correct)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0.0, Percentage(correct, total))
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 66.67, Percentage(2, 3), 0.01)
	assert.Equal(t, 100.0, Percentage(5, 5))
	assert.Equal(t, 0.0, Percentage(0, 0))
}
