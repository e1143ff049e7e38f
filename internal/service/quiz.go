package service

import (
	"context"
	"errors"
	"strings"

	"quiz-board/internal/domain"
	"quiz-board/internal/dto"
	"quiz-board/internal/logger"
	"quiz-board/internal/util"
	"quiz-board/internal/validation"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz catalogue operations
type QuizService interface {
	CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (string, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
	GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
}

// quizService implements QuizService
type quizService struct {
	repo      domain.QuizRepository
	validator *validation.Validator
	retry     RetryPolicy
}

// NewQuizService creates a new instance of quizService
func NewQuizService(repo domain.QuizRepository, validator *validation.Validator, retry RetryPolicy) QuizService {
	return &quizService{
		repo:      repo,
		validator: validator,
		retry:     retry,
	}
}

// CreateQuiz validates the request, assigns a ULID and stores the quiz.
func (s *quizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", err
	}

	quiz := domain.NewQuiz(util.NewULID(), strings.TrimSpace(req.Title), req.Description, req.ToQuestions())
	if err := quiz.Validate(); err != nil {
		return "", err
	}

	if err := s.retry.Do(ctx, "save quiz", func() error {
		return s.repo.SaveQuiz(ctx, quiz)
	}); err != nil {
		return "", wrapStoreError("Failed to save quiz", err)
	}

	logger.Get().Info("Quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)))
	return quiz.ID, nil
}

// ListQuizzes returns the summaries of every quiz, oldest first.
func (s *quizService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	var quizzes []*domain.Quiz
	err := s.retry.Do(ctx, "list quizzes", func() error {
		var err error
		quizzes, err = s.repo.ListQuizzes(ctx)
		return err
	})
	if err != nil {
		return nil, wrapStoreError("Failed to list quizzes", err)
	}

	summaries := make([]domain.QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, q.Summary())
	}
	return summaries, nil
}

func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	quiz, err := s.fetchQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}

func (s *quizService) fetchQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var quiz *domain.Quiz
	err := s.retry.Do(ctx, "get quiz", func() error {
		var err error
		quiz, err = s.repo.GetQuizByID(ctx, quizID)
		return err
	})
	if err != nil {
		return nil, wrapStoreError("Failed to get quiz", err)
	}
	return quiz, nil
}

// wrapStoreError keeps domain errors intact and wraps anything else as internal.
func wrapStoreError(message string, err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	return domain.NewInternalError(message, err)
}
