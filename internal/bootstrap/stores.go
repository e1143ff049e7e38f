// Package bootstrap opens the backing stores selected by configuration and
// hands them to the binaries as domain repositories.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"quiz-board/internal/adapter"
	"quiz-board/internal/adapter/firestoredb"
	"quiz-board/internal/adapter/memory"
	"quiz-board/internal/adapter/redisstore"
	"quiz-board/internal/cache"
	"quiz-board/internal/config"
	"quiz-board/internal/database"
	"quiz-board/internal/domain"
	"quiz-board/internal/handler"
	"quiz-board/internal/logger"
	"quiz-board/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the repositories and optional cache for one store driver.
type Stores struct {
	Quizzes     domain.QuizRepository
	Submissions domain.SubmissionRepository
	// Cache is nil when no Redis server is reachable.
	Cache domain.Cache
	// Health lists the dependencies reported by /healthz.
	Health map[string]handler.Pinger

	closers []func() error
}

// Close releases every connection opened by OpenStores.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStores connects to the store named by cfg.Store.Driver. A Redis cache
// is attached whenever Redis answers, and skipped with a warning otherwise.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	log := logger.Get()
	s := &Stores{Health: make(map[string]handler.Pinger)}

	var redisClient *redis.Client
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		s.Quizzes, s.Submissions = store, store

	case config.StoreDriverRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		redisClient = client
		s.closers = append(s.closers, client.Close)
		store := redisstore.NewStore(client)
		s.Quizzes, s.Submissions = store, store

	case config.StoreDriverFirestore:
		client, err := firestoredb.NewClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		store := firestoredb.NewStore(client)
		s.Quizzes, s.Submissions = store, store

	case config.StoreDriverOracle:
		db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.Health["database"] = handler.PingFunc(db.PingContext)
		s.Quizzes = repository.NewQuizRepository(db)
		s.Submissions = repository.NewSubmissionRepository(db, repository.NewTransactionManager(db))

	default:
		return nil, fmt.Errorf("unsupported store driver: %q", cfg.Store.Driver)
	}

	if redisClient == nil && cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, leaderboard cache disabled",
				zap.String("address", cfg.Redis.Address), zap.Error(err))
		} else {
			redisClient = client
			s.closers = append(s.closers, client.Close)
		}
	}
	if redisClient != nil {
		cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
		s.Cache = cacheAdapter
		s.Health["redis"] = cacheAdapter
	}

	log.Info("Stores opened",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("cache", s.Cache != nil))
	return s, nil
}
