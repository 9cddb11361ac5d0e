package domain

import "strings"

// Option is a single answer choice within a multiple-choice question.
type Option struct {
	Key  string // single letter A-D, uppercase
	Text string
}

// Question represents one multiple-choice question as extracted from a
// category document. Questions are recomputed from the source text on every
// page load and submission and are never mutated after parsing.
type Question struct {
	Text    string
	Options []Option
	Answer  string // uppercase letter matching one of the option keys
}

// Complete reports whether the question carries everything needed to be
// surfaced: question text, at least one option, and an answer key that names
// one of the present options.
func (q Question) Complete() bool {
	if q.Text == "" || len(q.Options) == 0 || q.Answer == "" {
		return false
	}
	for _, opt := range q.Options {
		if opt.Key == q.Answer {
			return true
		}
	}
	return false
}

// Score compares submitted answers against the questions' answer keys.
// Submissions are keyed by 0-based question index; letters are matched
// case-insensitively. A missing or unrecognized index simply counts as
// incorrect. The returned total is always len(questions).
func Score(questions []Question, submitted map[int]string) (correct, total int) {
	total = len(questions)
	for i, q := range questions {
		answer, ok := submitted[i]
		if !ok {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(answer)) == q.Answer {
			correct++
		}
	}
	return correct, total
}

// Percentage converts a correct/total pair to a percentage, yielding 0 for an
// empty question set.
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
