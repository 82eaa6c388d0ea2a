package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 32, cfg.Token.Length)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.Expiry)
	assert.Equal(t, time.Hour, cfg.Token.SweepInterval)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 8, cfg.Auth.MinPasswordLength)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("USERAPI_SERVER_PORT", "9090")
	t.Setenv("USERAPI_TOKEN_EXPIRY", "24h")
	t.Setenv("USERAPI_DATABASE_DRIVER", "postgres")

	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Token.Expiry)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestValidateTokenConfig(t *testing.T) {
	tests := []struct {
		name        string
		tokenConfig TokenConfig
		wantErr     bool
	}{
		{
			name: "valid config",
			tokenConfig: TokenConfig{
				Length:        32,
				Expiry:        7 * 24 * time.Hour,
				SweepInterval: time.Hour,
			},
			wantErr: false,
		},
		{
			name: "sweep disabled",
			tokenConfig: TokenConfig{
				Length:        32,
				Expiry:        7 * 24 * time.Hour,
				SweepInterval: 0,
			},
			wantErr: false,
		},
		{
			name: "token too short",
			tokenConfig: TokenConfig{
				Length:        8,
				Expiry:        7 * 24 * time.Hour,
				SweepInterval: time.Hour,
			},
			wantErr: true,
		},
		{
			name: "zero expiry",
			tokenConfig: TokenConfig{
				Length:        32,
				Expiry:        0,
				SweepInterval: time.Hour,
			},
			wantErr: true,
		},
		{
			name: "negative sweep interval",
			tokenConfig: TokenConfig{
				Length:        32,
				Expiry:        7 * 24 * time.Hour,
				SweepInterval: -time.Hour,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTokenConfig(&tt.tokenConfig)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
