// Command stubapi serves a local users resource with the same contract as
// the public placeholder API, backed by memory or MongoDB.
package main

import (
	"context"

	"github.com/aDevMister/my-assesment/internal/config"
	"github.com/aDevMister/my-assesment/internal/database"
	"github.com/aDevMister/my-assesment/internal/remoteapi/handler"
	"github.com/aDevMister/my-assesment/internal/remoteapi/repository"
	"github.com/aDevMister/my-assesment/internal/remoteapi/service"
	"github.com/aDevMister/my-assesment/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	logger.Init(cfg.Log.Level)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()
	svc := service.NewMemoryService()
	if cfg.MongoDB.URI != "" {
		client, col, err := database.ConnectMongo(ctx, cfg.MongoDB)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using memory-backed repo", err)
		} else {
			defer client.Disconnect(context.Background())
			svc = service.New(repository.NewMongoRepo(ctx, col))
			logger.Infof("users stored in mongo %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		}
	}
	if err := svc.Seed(ctx, cfg.Stub.Seed); err != nil {
		logger.Fatalf("seed: %v", err)
	}

	handler.RegisterUserRoutes(r, svc)

	logger.Infof("stub users resource listening on :%s", cfg.Stub.Port)
	if err := r.Run(":" + cfg.Stub.Port); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
