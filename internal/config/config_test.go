package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "")
	t.Setenv("VIEW_PAGE_SIZE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "https://jsonplaceholder.typicode.com", cfg.Remote.BaseURL)
	require.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	require.Equal(t, 5, cfg.View.PageSize)
	require.Equal(t, 500*time.Millisecond, cfg.View.SearchDebounce)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, "", cfg.Redis.Addr())
	require.False(t, cfg.Auth.Enabled())
	require.Equal(t, "5010", cfg.Stub.Port)
	require.Equal(t, 10, cfg.Stub.Seed)
	require.Equal(t, "users", cfg.MongoDB.Collection)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "http://localhost:5010/")
	t.Setenv("VIEW_PAGE_SIZE", "10")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("AUTH_JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:5010", cfg.Remote.BaseURL)
	require.Equal(t, 10, cfg.View.PageSize)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.True(t, cfg.Auth.Enabled())
	require.True(t, cfg.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Remote: RemoteConfig{BaseURL: "http://x"},
			View:   ViewConfig{PageSize: 5},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Remote.BaseURL = "ftp://x"
	require.Error(t, c.Validate())

	c = base()
	c.View.PageSize = 0
	require.Error(t, c.Validate())

	c = base()
	c.Auth.OIDCIssuer = "https://issuer"
	require.Error(t, c.Validate())

	c = base()
	c.RateLimit = RateLimitConfig{Enabled: true, RPS: 0}
	require.Error(t, c.Validate())
}
