// Package memory keeps quizzes, submissions and user histories in process
// memory. It backs local development and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-board/internal/domain"
)

// Store implements domain.QuizRepository and domain.SubmissionRepository.
type Store struct {
	mu          sync.RWMutex
	quizzes     map[string]*domain.Quiz
	results     map[string]*domain.Submission
	histories   map[string][]domain.UserHistoryEntry
	historyIDs  map[string]map[string]struct{}
	historyUser []string
}

var (
	_ domain.QuizRepository       = (*Store)(nil)
	_ domain.SubmissionRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		quizzes:    make(map[string]*domain.Quiz),
		results:    make(map[string]*domain.Submission),
		histories:  make(map[string][]domain.UserHistoryEntry),
		historyIDs: make(map[string]map[string]struct{}),
	}
}

func (s *Store) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.quizzes[quiz.ID]; exists {
		return domain.NewStoreError("save quiz", domain.NewError(domain.CodeDuplicate, "quiz already exists", nil), false)
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *Store) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, nil
	}
	return cloneQuiz(q), nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		out = append(out, cloneQuiz(q))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) RecordSubmission(ctx context.Context, sub *domain.Submission) (*domain.Submission, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.results[sub.ID]; ok {
		return cloneSubmission(existing), false, nil
	}
	stored := cloneSubmission(sub)
	s.results[sub.ID] = stored
	s.appendLocked(sub.UserID, sub.HistoryEntry())
	return cloneSubmission(stored), true, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.results[id]
	if !ok {
		return nil, nil
	}
	return cloneSubmission(sub), nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*domain.Submission, 0, len(s.results))
	for _, sub := range s.results {
		out = append(out, cloneSubmission(sub))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) AppendHistoryEntry(ctx context.Context, userID string, entry domain.UserHistoryEntry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(userID, entry), nil
}

// appendLocked must be called with mu held for writing.
func (s *Store) appendLocked(userID string, entry domain.UserHistoryEntry) bool {
	ids, ok := s.historyIDs[userID]
	if !ok {
		ids = make(map[string]struct{})
		s.historyIDs[userID] = ids
		s.historyUser = append(s.historyUser, userID)
	}
	if _, dup := ids[entry.SubmissionID]; dup {
		return false
	}
	ids[entry.SubmissionID] = struct{}{}
	s.histories[userID] = append(s.histories[userID], entry)
	return true
}

func (s *Store) ListUserHistories(ctx context.Context) ([]domain.UserHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserHistory, 0, len(s.historyUser))
	for _, userID := range s.historyUser {
		entries := s.histories[userID]
		out = append(out, domain.UserHistory{
			UserID:  userID,
			Entries: append([]domain.UserHistoryEntry(nil), entries...),
		})
	}
	return out, nil
}

func cloneQuiz(q *domain.Quiz) *domain.Quiz {
	c := *q
	c.Questions = make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]domain.Option(nil), question.Options...)
		c.Questions[i] = question
	}
	return &c
}

func cloneSubmission(sub *domain.Submission) *domain.Submission {
	c := *sub
	c.Answers = make([]domain.Answer, len(sub.Answers))
	for i, a := range sub.Answers {
		a.SelectedOptionIDs = append([]string(nil), a.SelectedOptionIDs...)
		c.Answers[i] = a
	}
	return &c
}
