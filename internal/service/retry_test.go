package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-board/internal/config"
	"quiz-board/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNewRetryPolicy(t *testing.T) {
	p := NewRetryPolicy(config.SubmissionConfig{
		MaxRetries:           5,
		RetryInitialInterval: 10 * time.Millisecond,
		RetryMaxInterval:     time.Second,
	})
	assert.Equal(t, RetryPolicy{MaxRetries: 5, InitialInterval: 10 * time.Millisecond, MaxInterval: time.Second}, p)
}

func TestRetryPolicy_Do(t *testing.T) {
	transient := domain.NewStoreError("op", errors.New("unavailable"), true)
	permanent := domain.NewStoreError("op", errors.New("bad request"), false)

	tests := []struct {
		name      string
		policy    RetryPolicy
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", fastRetry, []error{nil}, 1, nil},
		{"transient then success", fastRetry, []error{transient, transient, nil}, 3, nil},
		{"permanent stops immediately", fastRetry, []error{permanent, nil}, 1, permanent},
		{"plain errors are permanent", fastRetry, []error{errors.New("x"), nil}, 1, errors.New("x")},
		{"retries bounded", fastRetry, []error{transient, transient, transient, transient, nil}, 4, transient},
		{"no retry policy", NoRetry, []error{transient, nil}, 1, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := tt.policy.Do(context.Background(), "op", func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr.Error())
			}
		})
	}
}

func TestRetryPolicy_DoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	transient := domain.NewStoreError("op", errors.New("unavailable"), true)
	policy := RetryPolicy{MaxRetries: 100, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

	calls := 0
	err := policy.Do(ctx, "op", func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return transient
	})
	assert.Error(t, err)
	assert.Less(t, calls, 100)
}
