package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, uint64(3), cfg.Submission.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Submission.RetryInitialInterval)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("REDIS_ADDRESS", "cache:6380")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LEADERBOARD_CACHE_TTL", "0s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6380", cfg.Redis.Address)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Zero(t, cfg.Leaderboard.CacheTTL)
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr string
	}{
		{"unknown driver", map[string]interface{}{"store.driver": "mongo"}, "unsupported store driver"},
		{"firestore without project", map[string]interface{}{"store.driver": "firestore"}, "firestore.project_id"},
		{"bad port", map[string]interface{}{"server.port": 0}, "invalid server.port"},
		{"firestore with project", map[string]interface{}{"store.driver": "firestore", "firestore.project_id": "demo"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DB: DBConfig{Host: "db", Port: 1521, User: "quiz", Password: "secret", DBName: "FREEPDB1"}}
	assert.Equal(t, "oracle://quiz:secret@db:1521/FREEPDB1", cfg.GetDSN())
}
