// Package firestoredb stores quizzes in the "quizzes" collection, submissions
// in "results" and per-user histories as an array field on "users" documents.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"quiz-board/internal/config"
	"quiz-board/internal/domain"
	"quiz-board/internal/logger"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewClient connects to Firestore. FIRESTORE_EMULATOR_HOST is honoured by the SDK.
func NewClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client for project %s: %w", cfg.ProjectID, err)
	}
	return client, nil
}

type Store struct {
	client *firestore.Client
}

var (
	_ domain.QuizRepository       = (*Store)(nil)
	_ domain.SubmissionRepository = (*Store)(nil)
)

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	_, err := s.client.Collection(quizzesCollection).Doc(quiz.ID).Create(ctx, toQuizDoc(quiz))
	if err != nil {
		return storeError("save quiz", err)
	}
	return nil
}

func (s *Store) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	snap, err := s.client.Collection(quizzesCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get quiz", err)
	}
	var doc quizDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, domain.NewStoreError("decode quiz", err, false)
	}
	return doc.toDomain(snap.Ref.ID), nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	iter := s.client.Collection(quizzesCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var quizzes []*domain.Quiz
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storeError("list quizzes", err)
		}
		var doc quizDoc
		if err := snap.DataTo(&doc); err != nil {
			logger.Get().Warn("Skipping malformed quiz document",
				zap.String("quiz_id", snap.Ref.ID), zap.Error(err))
			continue
		}
		quizzes = append(quizzes, doc.toDomain(snap.Ref.ID))
	}
	sort.SliceStable(quizzes, func(i, j int) bool {
		if !quizzes[i].CreatedAt.Equal(quizzes[j].CreatedAt) {
			return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
		}
		return quizzes[i].ID < quizzes[j].ID
	})
	return quizzes, nil
}

// RecordSubmission creates results/{id} and unions the history entry into
// users/{userId} within one transaction. Firestore re-runs the function on
// contention, so it only reads and writes through tx.
func (s *Store) RecordSubmission(ctx context.Context, sub *domain.Submission) (*domain.Submission, bool, error) {
	resultRef := s.client.Collection(resultsCollection).Doc(sub.ID)
	userRef := s.client.Collection(usersCollection).Doc(sub.UserID)

	var existing *domain.Submission
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing = nil

		snap, err := tx.Get(resultRef)
		if err == nil {
			var doc resultDoc
			if err := snap.DataTo(&doc); err != nil {
				return err
			}
			existing = doc.toDomain()
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		var user userDoc
		userSnap, err := tx.Get(userRef)
		switch {
		case err == nil:
			if err := userSnap.DataTo(&user); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}

		if err := tx.Create(resultRef, toResultDoc(sub)); err != nil {
			return err
		}
		if user.contains(sub.ID) {
			return nil
		}
		return tx.Set(userRef, map[string]interface{}{
			"history": firestore.ArrayUnion(toHistoryDoc(sub.HistoryEntry())),
		}, firestore.MergeAll)
	})
	if err != nil {
		return nil, false, storeError("record submission", err)
	}
	if existing != nil {
		return existing, false, nil
	}
	return sub, true, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	snap, err := s.client.Collection(resultsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get submission", err)
	}
	var doc resultDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, domain.NewStoreError("decode submission", err, false)
	}
	return doc.toDomain(), nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	iter := s.client.Collection(resultsCollection).Documents(ctx)
	defer iter.Stop()

	var subs []*domain.Submission
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storeError("list submissions", err)
		}
		var doc resultDoc
		if err := snap.DataTo(&doc); err != nil {
			logger.Get().Warn("Skipping malformed result document",
				zap.String("submission_id", snap.Ref.ID), zap.Error(err))
			continue
		}
		subs = append(subs, doc.toDomain())
	}
	return subs, nil
}

func (s *Store) AppendHistoryEntry(ctx context.Context, userID string, entry domain.UserHistoryEntry) (bool, error) {
	userRef := s.client.Collection(usersCollection).Doc(userID)

	appended := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		appended = false
		var user userDoc
		snap, err := tx.Get(userRef)
		switch {
		case err == nil:
			if err := snap.DataTo(&user); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}
		if user.contains(entry.SubmissionID) {
			return nil
		}
		appended = true
		return tx.Set(userRef, map[string]interface{}{
			"history": firestore.ArrayUnion(toHistoryDoc(entry)),
		}, firestore.MergeAll)
	})
	if err != nil {
		return false, storeError("append history", err)
	}
	return appended, nil
}

func (s *Store) ListUserHistories(ctx context.Context) ([]domain.UserHistory, error) {
	iter := s.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var histories []domain.UserHistory
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storeError("list histories", err)
		}
		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			logger.Get().Warn("Skipping malformed user document",
				zap.String("user_id", snap.Ref.ID), zap.Error(err))
			continue
		}
		histories = append(histories, doc.toDomain(snap.Ref.ID))
	}
	return histories, nil
}

func storeError(op string, err error) error {
	return domain.NewStoreError(op, err, isTransient(err))
}

func isTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.Aborted, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}
