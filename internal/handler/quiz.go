package handler

import (
	"quiz-board/internal/domain"
	"quiz-board/internal/dto"
	"quiz-board/internal/logger"
	"quiz-board/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry a submission without recording it twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	quizzes     service.QuizService
	submissions service.SubmissionService
	leaderboard service.LeaderboardService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizzes service.QuizService, submissions service.SubmissionService, leaderboard service.LeaderboardService) *QuizHandler {
	return &QuizHandler{
		quizzes:     quizzes,
		submissions: submissions,
		leaderboard: leaderboard,
	}
}

// RegisterRoutes mounts the quiz routes on router. The leaderboard route is
// registered before /:quizId so it is not captured as a quiz id.
func (h *QuizHandler) RegisterRoutes(router fiber.Router) {
	quizzes := router.Group("/quizzes")
	quizzes.Post("/", h.CreateQuiz)
	quizzes.Get("/", h.ListQuizzes)
	quizzes.Get("/leaderboard", h.GetLeaderboard)
	quizzes.Get("/:quizId", h.GetQuiz)
	quizzes.Post("/:quizId/submit", h.SubmitQuiz)
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Description Stores a new quiz and returns its generated id
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.CreateQuizResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid create quiz body", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}

	quizID, err := h.quizzes.CreateQuiz(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateQuizResponse{
		Message: "Quiz created successfully",
		QuizID:  quizID,
	})
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Returns id, title and description of every quiz, oldest first
// @Tags quiz
// @Produce json
// @Success 200 {array} domain.QuizSummary
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.quizzes.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	if len(quizzes) == 0 {
		return domain.NewNotFoundError("No quizzes found")
	}
	return c.JSON(quizzes)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns the full quiz document
// @Tags quiz
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} domain.Quiz
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /quizzes/{quizId} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizzes.GetQuiz(c.UserContext(), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// SubmitQuiz godoc
// @Summary Submit answers
// @Description Scores the answers, records the submission and appends it to the user's history
// @Tags quiz
// @Accept json
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param Idempotency-Key header string false "Replays return the originally recorded result"
// @Param request body dto.SubmitQuizRequest true "Answers"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /quizzes/{quizId}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid submit body", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}

	res, err := h.submissions.Submit(c.UserContext(), c.Params("quizId"), &req, c.Get(IdempotencyKeyHeader))
	if err != nil {
		return err
	}

	return c.JSON(dto.SubmitQuizResponse{
		Message:      "Quiz submitted successfully",
		Score:        res.Score,
		MaxScore:     res.MaxScore,
		SubmissionID: res.SubmissionID,
	})
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Description Users ranked by total score, ties broken by user id
// @Tags leaderboard
// @Produce json
// @Success 200 {array} domain.LeaderboardRow
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /quizzes/leaderboard [get]
func (h *QuizHandler) GetLeaderboard(c *fiber.Ctx) error {
	rows, err := h.leaderboard.Leaderboard(c.UserContext())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.NewNotFoundError("No users found")
	}
	return c.JSON(rows)
}
