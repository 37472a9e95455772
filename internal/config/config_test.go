package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDashboard(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, cfg Dashboard)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg Dashboard) {
				require.Equal(t, defaultAPIBaseURL, cfg.APIBaseURL)
				require.Equal(t, defaultDashboardAddr, cfg.HTTPAddr)
				require.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
				require.Equal(t, defaultGatewayRPS, cfg.GatewayRPS)
				require.Equal(t, int64(defaultMaxListBytes), cfg.MaxListBytes)
				require.Equal(t, defaultMetricsTTL, cfg.MetricsTTL)
				require.Equal(t, defaultEventsQueue, cfg.EventsQueue)
				require.False(t, cfg.AuthEnabled())
				require.Empty(t, cfg.RedisURL)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"API_BASE_URL":    "https://inventory.example.com/api",
				"DASHBOARD_ADDR":  ":9090",
				"REQUEST_TIMEOUT": "3s",
				"GATEWAY_RPS":     "2.5",
				"MAX_LIST_BYTES":  "1048576",
				"REDIS_URL":       "redis://localhost:6379/0",
				"JWT_SECRET":      "s3cret",
			},
			check: func(t *testing.T, cfg Dashboard) {
				require.Equal(t, "https://inventory.example.com/api", cfg.APIBaseURL)
				require.Equal(t, ":9090", cfg.HTTPAddr)
				require.Equal(t, 3*time.Second, cfg.RequestTimeout)
				require.Equal(t, 2.5, cfg.GatewayRPS)
				require.Equal(t, int64(1<<20), cfg.MaxListBytes)
				require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
				require.True(t, cfg.AuthEnabled())
			},
		},
		{
			name:    "relative api url",
			env:     map[string]string{"API_BASE_URL": "/api"},
			wantErr: "API_BASE_URL must be an absolute URL",
		},
		{
			name:    "non positive client rate",
			env:     map[string]string{"CLIENT_RPS": "0"},
			wantErr: "rate limits must be positive",
		},
		{
			name:    "non positive list limit",
			env:     map[string]string{"MAX_LIST_BYTES": "0"},
			wantErr: "MAX_LIST_BYTES must be positive",
		},
		{
			name:    "admin without secret",
			env:     map[string]string{"ADMIN_USER": "admin", "ADMIN_PASSWORD_HASH": "$2a$10$abc"},
			wantErr: "ADMIN_USER requires ADMIN_PASSWORD_HASH and JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadDashboard()
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadAPI(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadAPI()
	require.NoError(t, err)
	require.Equal(t, defaultAPIAddr, cfg.HTTPAddr)
	require.True(t, cfg.SeedDemoData)

	t.Setenv("API_ADDR", ":7070")
	t.Setenv("SEED_DEMO_DATA", "false")
	cfg, err = LoadAPI()
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTPAddr)
	require.False(t, cfg.SeedDemoData)
}

func TestLoadDashboard_ConfigFile(t *testing.T) {
	clearConfigEnv(t)
	path := t.TempDir() + "/dashboard.yaml"
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL: http://files.example.com/api\nMETRICS_TTL: 5s\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadDashboard()

	require.NoError(t, err)
	require.Equal(t, "http://files.example.com/api", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.MetricsTTL)
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG_FILE", "ENVIRONMENT", "API_BASE_URL", "DASHBOARD_ADDR", "API_ADDR",
		"REQUEST_TIMEOUT", "GATEWAY_RPS", "GATEWAY_BURST", "MAX_LIST_BYTES", "CLIENT_RPS", "CLIENT_BURST",
		"REDIS_URL", "RABBITMQ_URL", "JWT_SECRET", "ADMIN_USER", "ADMIN_PASSWORD_HASH",
		"METRICS_TTL", "CATEGORIES_TTL", "SEED_DEMO_DATA",
	}
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok {
			t.Setenv(key, val)
		}
		os.Unsetenv(key)
	}
}
