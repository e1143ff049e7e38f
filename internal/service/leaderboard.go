package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"quiz-board/internal/cache"
	"quiz-board/internal/domain"
	"quiz-board/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LeaderboardService ranks users by the total score of their history.
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error)
	// Invalidate makes every later read, on any instance sharing the cache,
	// recompute the leaderboard.
	Invalidate(ctx context.Context)
}

// leaderboardService caches rendered rows under a versioned key. Invalidate
// increments the shared version counter, so rows computed before a
// submission are written under a key that is no longer read.
type leaderboardService struct {
	repo  domain.SubmissionRepository
	cache domain.Cache
	ttl   time.Duration
	retry RetryPolicy

	group singleflight.Group
	// generation is bumped on every local invalidation so callers never join
	// a computation that started before it.
	generation atomic.Uint64
}

// NewLeaderboardService creates the aggregator. cache may be nil and a ttl of
// zero disables caching.
func NewLeaderboardService(repo domain.SubmissionRepository, c domain.Cache, ttl time.Duration, retry RetryPolicy) LeaderboardService {
	return &leaderboardService{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		retry: retry,
	}
}

func (s *leaderboardService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *leaderboardService) Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error) {
	gen := s.generation.Load()
	version, useCache := s.currentVersion(ctx)
	key := cache.LeaderboardKey(version)

	if useCache {
		if rows, ok := s.fromCache(ctx, key); ok {
			return rows, nil
		}
	}

	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	v, err, shared := s.group.Do(flightKey, func() (interface{}, error) {
		// shared by every caller on flightKey, so one caller's cancellation
		// must not fail the others
		ctx := context.WithoutCancel(ctx)

		var histories []domain.UserHistory
		err := s.retry.Do(ctx, "list histories", func() error {
			var err error
			histories, err = s.repo.ListUserHistories(ctx)
			return err
		})
		if err != nil {
			return nil, wrapStoreError("Failed to load user histories", err)
		}

		rows := domain.BuildLeaderboard(histories)
		if useCache {
			s.toCache(ctx, key, rows)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Leaderboard computation shared between callers")
	}

	rows := v.([]domain.LeaderboardRow)
	out := make([]domain.LeaderboardRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	if !s.cacheEnabled() {
		return
	}
	if _, err := s.cache.Incr(ctx, cache.LeaderboardVersionKey()); err != nil {
		logger.Get().Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}

// currentVersion reads the shared version counter. The cache is skipped for
// this read when it is disabled or the counter cannot be read.
func (s *leaderboardService) currentVersion(ctx context.Context) (int64, bool) {
	if !s.cacheEnabled() {
		return 0, false
	}
	raw, err := s.cache.Get(ctx, cache.LeaderboardVersionKey())
	if errors.Is(err, domain.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		logger.Get().Warn("Leaderboard cache version read failed", zap.Error(err))
		return 0, false
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Get().Warn("Malformed leaderboard cache version", zap.String("value", raw))
		return 0, false
	}
	return version, true
}

func (s *leaderboardService) fromCache(ctx context.Context, key string) ([]domain.LeaderboardRow, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Leaderboard cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var rows []domain.LeaderboardRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		logger.Get().Warn("Discarding malformed leaderboard cache entry", zap.Error(err))
		return nil, false
	}
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}
	return rows, true
}

func (s *leaderboardService) toCache(ctx context.Context, key string, rows []domain.LeaderboardRow) {
	payload, err := json.Marshal(rows)
	if err != nil {
		logger.Get().Warn("Failed to encode leaderboard for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		logger.Get().Warn("Leaderboard cache write failed", zap.Error(err))
	}
}
