// Package redisstore persists quizzes, submissions and user histories in Redis.
//
// Layout (see cache.GenerateCacheKey):
//
//	quiz:doc:<id>          JSON quiz
//	quiz:index:created_at  zset of quiz ids scored by creation time
//	result:doc:<id>        JSON submission
//	result:index:...       zset of submission ids scored by submission time
//	history:list:<user>    list of JSON history entries
//	history:ids:<user>     set of submission ids already in the list
//	history:users:all      set of users with a history
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sort"

	"quiz-board/internal/cache"
	"quiz-board/internal/domain"
	"quiz-board/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	client redis.UniversalClient
}

var (
	_ domain.QuizRepository       = (*Store)(nil)
	_ domain.SubmissionRepository = (*Store)(nil)
)

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	payload, err := json.Marshal(quiz)
	if err != nil {
		return domain.NewStoreError("save quiz", err, false)
	}
	docKey := cache.QuizDocKey(quiz.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, docKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewStoreError("save quiz", domain.NewError(domain.CodeDuplicate, "quiz already exists", nil), false)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, docKey, payload, 0)
			pipe.ZAdd(ctx, cache.QuizIndexKey(), redis.Z{
				Score:  float64(quiz.CreatedAt.UnixMicro()),
				Member: quiz.ID,
			})
			return nil
		})
		return err
	}, docKey)
	if err != nil {
		return storeError("save quiz", err)
	}
	return nil
}

func (s *Store) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	raw, err := s.client.Get(ctx, cache.QuizDocKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get quiz", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return nil, domain.NewStoreError("decode quiz", err, false)
	}
	return &quiz, nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	ids, err := s.client.ZRange(ctx, cache.QuizIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, storeError("list quizzes", err)
	}
	docs, err := s.loadDocs(ctx, "list quizzes", ids, cache.QuizDocKey)
	if err != nil {
		return nil, err
	}

	quizzes := make([]*domain.Quiz, 0, len(docs))
	for _, raw := range docs {
		var quiz domain.Quiz
		if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
			return nil, domain.NewStoreError("decode quiz", err, false)
		}
		quizzes = append(quizzes, &quiz)
	}
	sort.SliceStable(quizzes, func(i, j int) bool {
		if !quizzes[i].CreatedAt.Equal(quizzes[j].CreatedAt) {
			return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
		}
		return quizzes[i].ID < quizzes[j].ID
	})
	return quizzes, nil
}

func (s *Store) RecordSubmission(ctx context.Context, sub *domain.Submission) (*domain.Submission, bool, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, false, domain.NewStoreError("record submission", err, false)
	}
	entry, err := json.Marshal(sub.HistoryEntry())
	if err != nil {
		return nil, false, domain.NewStoreError("record submission", err, false)
	}

	resultKey := cache.ResultDocKey(sub.ID)
	idsKey := cache.HistoryIDsKey(sub.UserID)
	var existing string

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, resultKey).Result()
		if err == nil {
			existing = raw
			return nil
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
		inHistory, err := tx.SIsMember(ctx, idsKey, sub.ID).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, resultKey, payload, 0)
			pipe.ZAdd(ctx, cache.ResultIndexKey(), redis.Z{
				Score:  float64(sub.SubmittedAt.UnixMicro()),
				Member: sub.ID,
			})
			if !inHistory {
				pipe.RPush(ctx, cache.HistoryListKey(sub.UserID), entry)
				pipe.SAdd(ctx, idsKey, sub.ID)
				pipe.SAdd(ctx, cache.HistoryUsersKey(), sub.UserID)
			}
			return nil
		})
		return err
	}, resultKey, idsKey)
	if err != nil {
		return nil, false, storeError("record submission", err)
	}

	if existing != "" {
		var stored domain.Submission
		if err := json.Unmarshal([]byte(existing), &stored); err != nil {
			return nil, false, domain.NewStoreError("decode submission", err, false)
		}
		return &stored, false, nil
	}
	return sub, true, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	raw, err := s.client.Get(ctx, cache.ResultDocKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get submission", err)
	}
	var sub domain.Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return nil, domain.NewStoreError("decode submission", err, false)
	}
	return &sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	ids, err := s.client.ZRange(ctx, cache.ResultIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, storeError("list submissions", err)
	}
	docs, err := s.loadDocs(ctx, "list submissions", ids, cache.ResultDocKey)
	if err != nil {
		return nil, err
	}
	subs := make([]*domain.Submission, 0, len(docs))
	for _, raw := range docs {
		var sub domain.Submission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return nil, domain.NewStoreError("decode submission", err, false)
		}
		subs = append(subs, &sub)
	}
	return subs, nil
}

func (s *Store) AppendHistoryEntry(ctx context.Context, userID string, entry domain.UserHistoryEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, domain.NewStoreError("append history", err, false)
	}
	idsKey := cache.HistoryIDsKey(userID)
	appended := false

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		present, err := tx.SIsMember(ctx, idsKey, entry.SubmissionID).Result()
		if err != nil || present {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, cache.HistoryListKey(userID), payload)
			pipe.SAdd(ctx, idsKey, entry.SubmissionID)
			pipe.SAdd(ctx, cache.HistoryUsersKey(), userID)
			return nil
		})
		if err == nil {
			appended = true
		}
		return err
	}, idsKey)
	if err != nil {
		return false, storeError("append history", err)
	}
	return appended, nil
}

func (s *Store) ListUserHistories(ctx context.Context) ([]domain.UserHistory, error) {
	users, err := s.client.SMembers(ctx, cache.HistoryUsersKey()).Result()
	if err != nil {
		return nil, storeError("list histories", err)
	}
	sort.Strings(users)

	cmds := make([]*redis.StringSliceCmd, len(users))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, userID := range users {
			cmds[i] = pipe.LRange(ctx, cache.HistoryListKey(userID), 0, -1)
		}
		return nil
	})
	if err != nil {
		return nil, storeError("list histories", err)
	}

	histories := make([]domain.UserHistory, 0, len(users))
	for i, userID := range users {
		raws := cmds[i].Val()
		entries := make([]domain.UserHistoryEntry, 0, len(raws))
		for _, raw := range raws {
			var e domain.UserHistoryEntry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				logger.Get().Warn("Skipping malformed history entry",
					zap.String("user_id", userID), zap.Error(err))
				continue
			}
			entries = append(entries, e)
		}
		histories = append(histories, domain.UserHistory{UserID: userID, Entries: entries})
	}
	return histories, nil
}

// loadDocs fetches the documents for ids in order, skipping ids whose
// document has vanished from under the index.
func (s *Store) loadDocs(ctx context.Context, op string, ids []string, key func(string) string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeError(op, err)
	}
	docs := make([]string, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			logger.Get().Warn("Index entry without document", zap.String("key", keys[i]))
			continue
		}
		docs = append(docs, raw)
	}
	return docs, nil
}

// storeError passes domain errors through and classifies everything else.
func storeError(op string, err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	return domain.NewStoreError(op, err, isTransient(err))
}

func isTransient(err error) bool {
	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
