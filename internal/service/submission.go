package service

import (
	"context"
	"sync/atomic"
	"time"

	"quiz-board/internal/domain"
	"quiz-board/internal/dto"
	"quiz-board/internal/logger"
	"quiz-board/internal/util"
	"quiz-board/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubmitResult is the outcome of a submission.
type SubmitResult struct {
	SubmissionID string
	Score        int
	MaxScore     int
	// Replayed is set when the idempotency key matched an earlier submission.
	Replayed bool
}

// SubmissionService scores and records quiz submissions.
type SubmissionService interface {
	Submit(ctx context.Context, quizID string, req *dto.SubmitQuizRequest, idempotencyKey string) (*SubmitResult, error)
	// ReconcileHistories appends the history entry of every stored submission
	// that is missing from its user's history and returns how many were added.
	ReconcileHistories(ctx context.Context) (int, error)
}

type submissionService struct {
	quizzes     domain.QuizRepository
	submissions domain.SubmissionRepository
	leaderboard LeaderboardService
	validator   *validation.Validator
	retry       RetryPolicy
	now         func() time.Time
}

func NewSubmissionService(
	quizzes domain.QuizRepository,
	submissions domain.SubmissionRepository,
	leaderboard LeaderboardService,
	validator *validation.Validator,
	retry RetryPolicy,
) SubmissionService {
	return &submissionService{
		quizzes:     quizzes,
		submissions: submissions,
		leaderboard: leaderboard,
		validator:   validator,
		retry:       retry,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *submissionService) Submit(ctx context.Context, quizID string, req *dto.SubmitQuizRequest, idempotencyKey string) (*SubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var quiz *domain.Quiz
	err := s.retry.Do(ctx, "get quiz", func() error {
		var err error
		quiz, err = s.quizzes.GetQuizByID(ctx, quizID)
		return err
	})
	if err != nil {
		return nil, wrapStoreError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	answers := req.ToAnswers()
	result, err := domain.Score(quiz, answers)
	if err != nil {
		return nil, err
	}

	submissionID := util.NewULID()
	if idempotencyKey != "" {
		submissionID = util.SubmissionID(req.UserID, quizID, idempotencyKey)
	}
	sub := &domain.Submission{
		ID:          submissionID,
		QuizID:      quiz.ID,
		UserID:      req.UserID,
		Answers:     answers,
		Score:       result.Score,
		SubmittedAt: s.now(),
	}

	var (
		stored  *domain.Submission
		created bool
	)
	err = s.retry.Do(ctx, "record submission", func() error {
		var err error
		stored, created, err = s.submissions.RecordSubmission(ctx, sub)
		return err
	})
	if err != nil {
		logger.Get().Error("Failed to record submission",
			zap.String("submission_id", sub.ID),
			zap.String("quiz_id", quizID),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return nil, wrapStoreError("Failed to record submission", err)
	}

	if created {
		s.leaderboard.Invalidate(ctx)
		logger.Get().Info("Submission recorded",
			zap.String("submission_id", sub.ID),
			zap.String("quiz_id", quizID),
			zap.String("user_id", req.UserID),
			zap.Int("score", sub.Score),
			zap.Int("max_score", result.MaxScore))
	} else {
		logger.Get().Info("Idempotent submission replayed",
			zap.String("submission_id", stored.ID),
			zap.String("user_id", stored.UserID))
	}

	return &SubmitResult{
		SubmissionID: stored.ID,
		Score:        stored.Score,
		MaxScore:     result.MaxScore,
		Replayed:     !created,
	}, nil
}

const reconcileConcurrency = 8

func (s *submissionService) ReconcileHistories(ctx context.Context) (int, error) {
	var subs []*domain.Submission
	err := s.retry.Do(ctx, "list submissions", func() error {
		var err error
		subs, err = s.submissions.ListSubmissions(ctx)
		return err
	})
	if err != nil {
		return 0, wrapStoreError("Failed to list submissions", err)
	}

	var repaired atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			var appended bool
			err := s.retry.Do(gctx, "append history", func() error {
				var err error
				appended, err = s.submissions.AppendHistoryEntry(gctx, sub.UserID, sub.HistoryEntry())
				return err
			})
			if err != nil {
				return wrapStoreError("Failed to append history entry", err)
			}
			if appended {
				repaired.Add(1)
				logger.Get().Info("Restored missing history entry",
					zap.String("submission_id", sub.ID),
					zap.String("user_id", sub.UserID))
			}
			return nil
		})
	}
	err = g.Wait()
	n := int(repaired.Load())
	// entries restored before a failure are already visible in the store
	if n > 0 {
		s.leaderboard.Invalidate(ctx)
	}
	if err != nil {
		return n, err
	}
	logger.Get().Info("History reconciliation finished",
		zap.Int("submissions", len(subs)),
		zap.Int("repaired", n))
	return n, nil
}
