package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aDevMister/my-assesment/handlers"
	"github.com/aDevMister/my-assesment/internal/config"
	"github.com/aDevMister/my-assesment/internal/export"
	"github.com/aDevMister/my-assesment/internal/oidc"
	"github.com/aDevMister/my-assesment/internal/sessions"
	"github.com/aDevMister/my-assesment/internal/storage"
	"github.com/aDevMister/my-assesment/internal/tokens"
	"github.com/aDevMister/my-assesment/internal/users"
	"github.com/aDevMister/my-assesment/pkg/logger"
	"github.com/aDevMister/my-assesment/pkg/metrics"
	"github.com/aDevMister/my-assesment/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Infof("config loaded: remote=%s redis=%v minio=%v auth=%v", cfg.Remote.BaseURL, cfg.Redis.Addr() != "", cfg.MinIO.Endpoint != "", cfg.Auth.Enabled())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	store := users.NewStore(users.NewHTTPRemote(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout))
	go initialFetch(ctx, store, cfg.Remote.Timeout)

	rdb := connectRedis(ctx, cfg.Redis)
	checks := map[string]handlers.Check{"users": store.Loaded}
	if rdb != nil {
		checks["redis"] = func() bool {
			pctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return rdb.Ping(pctx).Err() == nil
		}
	}
	handlers.RegisterHealth(r, checks)
	handlers.RegisterSwagger(r)

	protected := r.Group("/")
	if vs := buildVerifiers(ctx, cfg.Auth); len(vs) > 0 {
		var ver middleware.Verifier = vs
		var rev handlers.Revoker
		if rdb != nil {
			revoker := sessions.NewRevoker(rdb)
			ver, rev = revoker.Wrap(vs), revoker
		}
		handlers.RegisterLogin(r, ver, rev, cfg.Server.Environment == "production")
		protected.Use(middleware.AuthMiddleware(ver))
	} else {
		logger.Warnf("no AUTH_JWT_SECRET or AUTH_OIDC_* configured, console is open")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			protected.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			protected.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	console := handlers.NewConsole(store, buildExporter(ctx, cfg.MinIO), cfg.View)
	console.RegisterPages(protected)
	console.RegisterAPI(protected.Group("/api/v1"))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting users console on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// initialFetch loads the collection once at start-up. /ready stays 503 until
// a fetch succeeds; the console's Refresh action retries.
func initialFetch(ctx context.Context, store *users.Store, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := store.Fetch(fctx); err != nil {
		logger.Warnf("initial fetch failed: %v", err)
	}
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	addr := cfg.Addr()
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis: %s", addr)
	return client
}

func buildVerifiers(ctx context.Context, cfg config.AuthConfig) middleware.Verifiers {
	var out middleware.Verifiers
	if cfg.JWTSecret != "" {
		v, err := tokens.NewVerifier(cfg.JWTSecret)
		if err != nil {
			logger.Fatalf("AUTH_JWT_SECRET: %v", err)
		}
		out = append(out, v)
	}
	if cfg.OIDCIssuer != "" && cfg.OIDCClientID != "" {
		v, err := oidc.NewVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			out = append(out, v)
		}
	}
	return out
}

func buildExporter(ctx context.Context, cfg config.MinIOConfig) *export.Exporter {
	if cfg.Endpoint == "" {
		logger.Infof("MINIO_ENDPOINT not set, export disabled")
		return export.New(nil, cfg.PresignTTL)
	}
	st, err := storage.NewMinIOStorage(ctx, cfg)
	if err != nil {
		logger.Warnf("export disabled: %v", err)
		return export.New(nil, cfg.PresignTTL)
	}
	logger.Infof("exports go to minio bucket %s", st.Bucket())
	return export.New(st, cfg.PresignTTL)
}
