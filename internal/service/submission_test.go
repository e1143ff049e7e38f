package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"quiz-board/internal/adapter/memory"
	"quiz-board/internal/domain"
	"quiz-board/internal/dto"
	"quiz-board/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func arithmeticQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:    "quiz-1",
		Title: "Arithmetic",
		Questions: []domain.Question{{
			QuestionID: "q1",
			Text:       "What is 2 + 2?",
			Options:    []domain.Option{{ID: "o1", Text: "4", IsCorrect: true}, {ID: "o2", Text: "5"}},
		}},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

type submissionFixture struct {
	store       *memory.Store
	leaderboard LeaderboardService
	svc         SubmissionService
}

func newSubmissionFixture(t *testing.T) submissionFixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.SaveQuiz(context.Background(), arithmeticQuiz()))
	lb := NewLeaderboardService(store, nil, 0, NoRetry)
	return submissionFixture{
		store:       store,
		leaderboard: lb,
		svc:         NewSubmissionService(store, store, lb, validation.NewValidator(), fastRetry),
	}
}

func submitRequest(user, option string) *dto.SubmitQuizRequest {
	return &dto.SubmitQuizRequest{
		UserID:  user,
		Answers: []dto.AnswerRequest{{QuestionID: "q1", SelectedOptionID: option}},
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("CorrectAnswer", func(t *testing.T) {
		f := newSubmissionFixture(t)
		res, err := f.svc.Submit(ctx, "quiz-1", submitRequest("alice", "o1"), "")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Score)
		assert.Equal(t, 1, res.MaxScore)
		assert.False(t, res.Replayed)

		stored, err := f.store.GetSubmission(ctx, res.SubmissionID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "alice", stored.UserID)

		histories, err := f.store.ListUserHistories(ctx)
		require.NoError(t, err)
		require.Len(t, histories, 1)
		assert.Equal(t, res.SubmissionID, histories[0].Entries[0].SubmissionID)
		assert.Equal(t, stored.SubmittedAt, histories[0].Entries[0].CompletedAt)
	})

	t.Run("WrongAnswer", func(t *testing.T) {
		f := newSubmissionFixture(t)
		res, err := f.svc.Submit(ctx, "quiz-1", submitRequest("alice", "o2"), "")
		require.NoError(t, err)
		assert.Equal(t, 0, res.Score)
	})

	t.Run("UnknownQuiz", func(t *testing.T) {
		f := newSubmissionFixture(t)
		_, err := f.svc.Submit(ctx, "nope", submitRequest("alice", "o1"), "")
		assert.True(t, domain.IsNotFound(err))

		subs, _ := f.store.ListSubmissions(ctx)
		assert.Empty(t, subs, "nothing may be written for a missing quiz")
	})

	t.Run("MissingUserID", func(t *testing.T) {
		f := newSubmissionFixture(t)
		_, err := f.svc.Submit(ctx, "quiz-1", submitRequest("", "o1"), "")
		var verrs domain.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "userId", verrs[0].Field)
	})

	t.Run("IdempotentReplay", func(t *testing.T) {
		f := newSubmissionFixture(t)
		first, err := f.svc.Submit(ctx, "quiz-1", submitRequest("alice", "o1"), "key-1")
		require.NoError(t, err)

		// the replay carries different answers but must return the stored result
		second, err := f.svc.Submit(ctx, "quiz-1", submitRequest("alice", "o2"), "key-1")
		require.NoError(t, err)
		assert.True(t, second.Replayed)
		assert.Equal(t, first.SubmissionID, second.SubmissionID)
		assert.Equal(t, 1, second.Score)

		rows, err := f.leaderboard.Leaderboard(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].QuizzesTaken)
		assert.Equal(t, 1, rows[0].TotalScore)

		third, err := f.svc.Submit(ctx, "quiz-1", submitRequest("alice", "o1"), "key-2")
		require.NoError(t, err)
		assert.NotEqual(t, first.SubmissionID, third.SubmissionID)
	})

	t.Run("ConcurrentSubmissionsLoseNothing", func(t *testing.T) {
		f := newSubmissionFixture(t)
		const n = 50
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				_, err := f.svc.Submit(gctx, "quiz-1", submitRequest("alice", "o1"), "")
				return err
			})
		}
		require.NoError(t, g.Wait())

		rows, err := f.leaderboard.Leaderboard(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, n, rows[0].QuizzesTaken)
		assert.Equal(t, n, rows[0].TotalScore)
	})
}

func TestSubmissionService_SubmitInvalidatesLeaderboard(t *testing.T) {
	ctx := context.Background()
	quizzes := new(MockQuizRepository)
	subs := new(MockSubmissionRepository)
	lb := new(MockLeaderboardService)
	svc := NewSubmissionService(quizzes, subs, lb, validation.NewValidator(), fastRetry)

	quizzes.On("GetQuizByID", ctx, "quiz-1").Return(arithmeticQuiz(), nil)
	subs.On("RecordSubmission", ctx, mock.AnythingOfType("*domain.Submission")).
		Return(&domain.Submission{ID: "s1", UserID: "bob", Score: 1}, true, nil).Once()
	lb.On("Invalidate", ctx).Once()

	_, err := svc.Submit(ctx, "quiz-1", submitRequest("bob", "o1"), "")
	require.NoError(t, err)
	lb.AssertExpectations(t)
}

func TestSubmissionService_SubmitRetries(t *testing.T) {
	ctx := context.Background()
	unavailable := domain.NewStoreError("record submission", errors.New("unavailable"), true)

	t.Run("TransientThenSuccess", func(t *testing.T) {
		quizzes := new(MockQuizRepository)
		subs := new(MockSubmissionRepository)
		lb := new(MockLeaderboardService)
		svc := NewSubmissionService(quizzes, subs, lb, validation.NewValidator(), fastRetry)

		stored := &domain.Submission{ID: "s", UserID: "bob", Score: 1}
		quizzes.On("GetQuizByID", ctx, "quiz-1").Return(arithmeticQuiz(), nil)
		subs.On("RecordSubmission", ctx, mock.Anything).Return(nil, false, unavailable).Twice()
		subs.On("RecordSubmission", ctx, mock.Anything).Return(stored, true, nil).Once()
		lb.On("Invalidate", ctx).Once()

		res, err := svc.Submit(ctx, "quiz-1", submitRequest("bob", "o1"), "")
		require.NoError(t, err)
		assert.Equal(t, "s", res.SubmissionID)
		subs.AssertNumberOfCalls(t, "RecordSubmission", 3)
	})

	t.Run("RetriesExhausted", func(t *testing.T) {
		quizzes := new(MockQuizRepository)
		subs := new(MockSubmissionRepository)
		lb := new(MockLeaderboardService)
		svc := NewSubmissionService(quizzes, subs, lb, validation.NewValidator(), fastRetry)

		quizzes.On("GetQuizByID", ctx, "quiz-1").Return(arithmeticQuiz(), nil)
		subs.On("RecordSubmission", ctx, mock.Anything).Return(nil, false, unavailable)

		_, err := svc.Submit(ctx, "quiz-1", submitRequest("bob", "o1"), "")
		require.Error(t, err)
		assert.True(t, domain.IsTransient(err))
		subs.AssertNumberOfCalls(t, "RecordSubmission", int(fastRetry.MaxRetries)+1)
		lb.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("PermanentErrorNotRetried", func(t *testing.T) {
		quizzes := new(MockQuizRepository)
		subs := new(MockSubmissionRepository)
		lb := new(MockLeaderboardService)
		svc := NewSubmissionService(quizzes, subs, lb, validation.NewValidator(), fastRetry)

		quizzes.On("GetQuizByID", ctx, "quiz-1").Return(arithmeticQuiz(), nil)
		subs.On("RecordSubmission", ctx, mock.Anything).
			Return(nil, false, domain.NewStoreError("record submission", errors.New("permission denied"), false))

		_, err := svc.Submit(ctx, "quiz-1", submitRequest("bob", "o1"), "")
		require.Error(t, err)
		subs.AssertNumberOfCalls(t, "RecordSubmission", 1)
	})
}

func TestSubmissionService_ReconcileHistories(t *testing.T) {
	ctx := context.Background()
	quizzes := new(MockQuizRepository)
	subs := new(MockSubmissionRepository)
	lb := new(MockLeaderboardService)
	svc := NewSubmissionService(quizzes, subs, lb, validation.NewValidator(), fastRetry)

	stored := make([]*domain.Submission, 0, 5)
	for i := 0; i < 5; i++ {
		stored = append(stored, &domain.Submission{
			ID:          fmt.Sprintf("s%d", i),
			QuizID:      "quiz-1",
			UserID:      "carol",
			Score:       i % 2,
			SubmittedAt: time.Unix(int64(i), 0).UTC(),
		})
	}
	subs.On("ListSubmissions", mock.Anything).Return(stored, nil)
	subs.On("AppendHistoryEntry", mock.Anything, "carol", stored[3].HistoryEntry()).Return(true, nil)
	subs.On("AppendHistoryEntry", mock.Anything, "carol", mock.Anything).Return(false, nil)
	lb.On("Invalidate", ctx).Once()

	repaired, err := svc.ReconcileHistories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	subs.AssertNumberOfCalls(t, "AppendHistoryEntry", 5)
	lb.AssertExpectations(t)
}

// detachedHistories serves submissions from one store and histories from
// another, as after a crash between the two writes.
type detachedHistories struct {
	*memory.Store
	results *memory.Store
}

func (d detachedHistories) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	return d.results.ListSubmissions(ctx)
}

func TestSubmissionService_ReconcileRestoresMissingEntries(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)

	first, err := f.svc.Submit(ctx, "quiz-1", submitRequest("dave", "o1"), "")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "quiz-1", submitRequest("erin", "o2"), "")
	require.NoError(t, err)

	// erin's entry made it into the history store, dave's did not
	histories := memory.NewStore()
	all, err := f.store.ListSubmissions(ctx)
	require.NoError(t, err)
	for _, sub := range all {
		if sub.UserID == "erin" {
			_, err := histories.AppendHistoryEntry(ctx, sub.UserID, sub.HistoryEntry())
			require.NoError(t, err)
		}
	}
	store := detachedHistories{Store: histories, results: f.store}
	lb := NewLeaderboardService(store, nil, 0, NoRetry)
	svc := NewSubmissionService(store, store, lb, validation.NewValidator(), fastRetry)

	rows, err := lb.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "erin", rows[0].UserID)

	repaired, err := svc.ReconcileHistories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	rows, err = lb.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "dave", rows[0].UserID)
	assert.Equal(t, 1, rows[0].TotalScore)

	restored, err := histories.ListUserHistories(ctx)
	require.NoError(t, err)
	var ids []string
	for _, h := range restored {
		for _, e := range h.Entries {
			ids = append(ids, e.SubmissionID)
		}
	}
	assert.Contains(t, ids, first.SubmissionID)

	repaired, err = svc.ReconcileHistories(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired, "a second pass finds nothing to restore")
}

func TestSubmissionService_ReconcileInvalidatesAfterPartialFailure(t *testing.T) {
	ctx := context.Background()
	subs := new(MockSubmissionRepository)
	lb := new(MockLeaderboardService)
	svc := NewSubmissionService(new(MockQuizRepository), subs, lb, validation.NewValidator(), fastRetry)

	restored := &domain.Submission{ID: "s1", QuizID: "quiz-1", UserID: "carol", Score: 1, SubmittedAt: time.Unix(1, 0).UTC()}
	broken := &domain.Submission{ID: "s2", QuizID: "quiz-1", UserID: "dan", SubmittedAt: time.Unix(2, 0).UTC()}
	subs.On("ListSubmissions", mock.Anything).Return([]*domain.Submission{restored, broken}, nil)
	subs.On("AppendHistoryEntry", mock.Anything, "carol", restored.HistoryEntry()).Return(true, nil)
	subs.On("AppendHistoryEntry", mock.Anything, "dan", broken.HistoryEntry()).Return(false, errors.New("disk full"))
	lb.On("Invalidate", ctx).Once()

	repaired, err := svc.ReconcileHistories(ctx)
	require.Error(t, err)
	var de *domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.CodeInternal, de.Code)
	assert.Equal(t, 1, repaired)
	lb.AssertExpectations(t)
}
