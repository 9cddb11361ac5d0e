package service

import (
	"fmt"

	"aptitude-trainer/internal/content"
	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/dto"
	"aptitude-trainer/internal/logger"
	"aptitude-trainer/internal/repository"

	"go.uber.org/zap"
)

// QuizService serves topic listings, parsed question sets, and submission
// scoring. Questions are re-parsed from the source document on every call;
// nothing is cached between requests.
type QuizService interface {
	ListTopics() (*dto.TopicListResponse, error)
	GetTopic(slug string) (*dto.TopicDetailResponse, error)
	SubmitAnswers(username, slug string, submitted map[int]string) (*dto.SubmitResultResponse, error)
}

type quizServiceImpl struct {
	library       *content.Library
	progressStore *repository.ProgressStore
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(library *content.Library, progressStore *repository.ProgressStore) QuizService {
	return &quizServiceImpl{
		library:       library,
		progressStore: progressStore,
	}
}

func (s *quizServiceImpl) ListTopics() (*dto.TopicListResponse, error) {
	topics, err := s.library.ListTopics()
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	items := make([]dto.TopicListItem, len(topics))
	for i, topic := range topics {
		items[i] = dto.TopicListItem{Slug: topic.Slug, Title: topic.Title}
	}
	return &dto.TopicListResponse{Topics: items}, nil
}

func (s *quizServiceImpl) GetTopic(slug string) (*dto.TopicDetailResponse, error) {
	document, err := s.library.LoadTopic(slug)
	if err != nil {
		return nil, err
	}

	questions := content.Parse(document)
	items := make([]dto.QuestionItem, len(questions))
	for i, q := range questions {
		options := make([]dto.QuestionOption, len(q.Options))
		for j, opt := range q.Options {
			options[j] = dto.QuestionOption{Key: opt.Key, Text: opt.Text}
		}
		// The answer key stays server-side.
		items[i] = dto.QuestionItem{Index: i, Text: q.Text, Options: options}
	}

	return &dto.TopicDetailResponse{
		Slug:      slug,
		Title:     s.library.TopicTitle(slug),
		Questions: items,
	}, nil
}

// SubmitAnswers re-parses the topic document, scores the submission against
// the parsed answer keys, and records the result. Extra or missing indices in
// the submission are tolerated; unanswered questions count as incorrect.
func (s *quizServiceImpl) SubmitAnswers(username, slug string, submitted map[int]string) (*dto.SubmitResultResponse, error) {
	document, err := s.library.LoadTopic(slug)
	if err != nil {
		return nil, err
	}

	questions := content.Parse(document)
	correct, total := domain.Score(questions, submitted)
	percentage := domain.Percentage(correct, total)

	if err := s.progressStore.UpdateUserProgress(username, slug, total, correct); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	logger.Get().Info("Quiz submission recorded",
		zap.String("username", username),
		zap.String("topic", slug),
		zap.Int("correct", correct),
		zap.Int("total", total),
	)

	score := fmt.Sprintf("%d/%d (%.1f%%)", correct, total, percentage)
	return &dto.SubmitResultResponse{
		Slug:       slug,
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
		Score:      score,
		Message:    fmt.Sprintf("You answered %d of %d questions correctly (%.1f%%).", correct, total, percentage),
	}, nil
}
