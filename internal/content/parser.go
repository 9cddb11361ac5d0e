package content

import (
	"regexp"
	"strings"

	"aptitude-trainer/internal/domain"
)

// Line patterns for the question document layout. Everything that does not
// match one of these is ignored.
var (
	questionPattern = regexp.MustCompile(`^(\d+)\)\s+(.*)$`)
	optionPattern   = regexp.MustCompile(`^-\s+([A-Da-d])\)\s*(.*)$`)
	answerPattern   = regexp.MustCompile(`^Answer:\s*([A-Da-d])`)
)

// Parse extracts multiple-choice questions from a category document.
//
// A `N) text` line opens a new question, `- X) text` lines attach options to
// the open question, and an `Answer: X` line sets the answer key and closes
// it. A question opened while another is still open abandons the earlier one;
// incomplete questions are filtered out at the end, so malformed input never
// produces an error; at worst the result is empty.
func Parse(document string) []domain.Question {
	var questions []domain.Question
	open := -1 // index into questions of the question accepting options

	for _, raw := range strings.Split(document, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := questionPattern.FindStringSubmatch(line); m != nil {
			questions = append(questions, domain.Question{
				Text: strings.TrimSpace(m[2]),
			})
			open = len(questions) - 1
			continue
		}

		if m := optionPattern.FindStringSubmatch(line); m != nil {
			if open >= 0 {
				questions[open].Options = append(questions[open].Options, domain.Option{
					Key:  strings.ToUpper(m[1]),
					Text: strings.TrimSpace(m[2]),
				})
			}
			continue
		}

		if m := answerPattern.FindStringSubmatch(line); m != nil {
			if open >= 0 {
				questions[open].Answer = strings.ToUpper(m[1])
				open = -1
			}
			continue
		}

		// Anything else (headings, prose, stray markup) is skipped.
	}

	complete := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.Complete() {
			complete = append(complete, q)
		}
	}
	return complete
}
