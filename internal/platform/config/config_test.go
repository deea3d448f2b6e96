package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "memory driver defaults",
			env:  map[string]string{"STORAGE_DRIVER": "memory"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DriverMemory, cfg.SequenceBackend)
				assert.Equal(t, 5*time.Second, cfg.LockTimeout)
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, time.UTC, cfg.SequenceLocation)
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
			},
		},
		{
			name: "postgres with redis sequences",
			env: map[string]string{
				"STORAGE_DRIVER":       "postgres",
				"PGSQL_URL":            "postgres://localhost/ledger",
				"SEQUENCE_BACKEND":     "redis",
				"SEQUENCE_TIMEZONE":    "Asia/Tokyo",
				"LEDGER_LOCK_TIMEOUT":  "250ms",
				"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DriverRedis, cfg.SequenceBackend)
				assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
				assert.Equal(t, "Asia/Tokyo", cfg.SequenceLocation.String())
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
			},
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"STORAGE_DRIVER": "postgres"},
			wantErr: true,
		},
		{
			name:    "postgres sequences need postgres storage",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "SEQUENCE_BACKEND": "postgres"},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "sqlite"},
			wantErr: true,
		},
		{
			name:    "bad timezone",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "SEQUENCE_TIMEZONE": "Mars/Olympus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
