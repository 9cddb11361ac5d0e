package handler

import (
	"strconv"
	"strings"

	"aptitude-trainer/internal/middleware"
	"aptitude-trainer/internal/service"

	"github.com/gofiber/fiber/v2"
)

// submissionFieldPrefix names the per-question positional form fields:
// question_0, question_1, ...
const submissionFieldPrefix = "question_"

type TopicHandler struct {
	quizService service.QuizService
}

func NewTopicHandler(quizService service.QuizService) *TopicHandler {
	return &TopicHandler{quizService: quizService}
}

// ListTopics returns every practice category.
func (h *TopicHandler) ListTopics(c *fiber.Ctx) error {
	resp, err := h.quizService.ListTopics()
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetTopic returns the topic's parsed questions, answer keys withheld.
func (h *TopicHandler) GetTopic(c *fiber.Ctx) error {
	resp, err := h.quizService.GetTopic(c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswers scores a submission against the topic's answer keys and
// records the result for the authenticated user. Form fields that do not
// follow the question_<index> naming are ignored.
func (h *TopicHandler) SubmitAnswers(c *fiber.Ctx) error {
	username, ok := c.Locals(middleware.UsernameKey).(string)
	if !ok || username == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code:    "INVALID_USER_CONTEXT",
			Message: "User identity not found in context",
			Status:  fiber.StatusUnauthorized,
		})
	}

	submitted := make(map[int]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		name := string(key)
		if !strings.HasPrefix(name, submissionFieldPrefix) {
			return
		}
		index, err := strconv.Atoi(strings.TrimPrefix(name, submissionFieldPrefix))
		if err != nil || index < 0 {
			return
		}
		submitted[index] = string(value)
	})

	resp, err := h.quizService.SubmitAnswers(username, c.Params("slug"), submitted)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
