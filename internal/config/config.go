package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	View      ViewConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	MongoDB   MongoDBConfig
	Stub      StubConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RemoteConfig points at the users resource the store talks to.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

type ViewConfig struct {
	PageSize       int
	SearchDebounce time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	PresignTTL time.Duration
}

// AuthConfig enables bearer auth on the console. With neither an OIDC issuer
// nor a JWT secret configured the console is open.
type AuthConfig struct {
	OIDCIssuer   string
	OIDCClientID string
	JWTSecret    string
}

// MongoDBConfig is only read by the stub users resource.
type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// StubConfig configures cmd/stubapi, the local users resource.
type StubConfig struct {
	Port string
	Seed int
}

type LogConfig struct {
	Level string
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// Enabled reports whether any bearer verifier is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || (a.OIDCIssuer != "" && a.OIDCClientID != "")
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("REMOTE_BASE_URL", "https://jsonplaceholder.typicode.com")
	v.SetDefault("REMOTE_TIMEOUT", 10)
	v.SetDefault("VIEW_PAGE_SIZE", 5)
	v.SetDefault("VIEW_SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_BUCKET", "users-admin")
	v.SetDefault("MINIO_PRESIGN_TTL_MINUTES", 15)
	v.SetDefault("MONGODB_DATABASE", "usersadmin")
	v.SetDefault("MONGODB_COLLECTION", "users")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("STUBAPI_PORT", "5010")
	v.SetDefault("STUBAPI_SEED", 10)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(v.GetString("REMOTE_BASE_URL"), "/"),
			Timeout: time.Duration(v.GetInt("REMOTE_TIMEOUT")) * time.Second,
			Token:   v.GetString("REMOTE_TOKEN"),
		},
		View: ViewConfig{
			PageSize:       v.GetInt("VIEW_PAGE_SIZE"),
			SearchDebounce: time.Duration(v.GetInt("VIEW_SEARCH_DEBOUNCE_MS")) * time.Millisecond,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		MinIO: MinIOConfig{
			Endpoint:   v.GetString("MINIO_ENDPOINT"),
			AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  v.GetString("MINIO_SECRET_KEY"),
			UseSSL:     v.GetBool("MINIO_USE_SSL"),
			Bucket:     v.GetString("MINIO_BUCKET"),
			PresignTTL: time.Duration(v.GetInt("MINIO_PRESIGN_TTL_MINUTES")) * time.Minute,
		},
		Auth: AuthConfig{
			OIDCIssuer:   v.GetString("AUTH_OIDC_ISSUER"),
			OIDCClientID: v.GetString("AUTH_OIDC_CLIENT_ID"),
			JWTSecret:    v.GetString("AUTH_JWT_SECRET"),
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Stub: StubConfig{
			Port: v.GetString("STUBAPI_PORT"),
			Seed: v.GetInt("STUBAPI_SEED"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the console cannot run with.
func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("REMOTE_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
		return fmt.Errorf("REMOTE_BASE_URL must be an http(s) URL, got %q", c.Remote.BaseURL)
	}
	if c.View.PageSize <= 0 {
		return fmt.Errorf("VIEW_PAGE_SIZE must be positive, got %d", c.View.PageSize)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 0) {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST non-negative")
	}
	if (c.Auth.OIDCIssuer == "") != (c.Auth.OIDCClientID == "") {
		return fmt.Errorf("AUTH_OIDC_ISSUER and AUTH_OIDC_CLIENT_ID must be set together")
	}
	return nil
}
