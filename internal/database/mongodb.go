package database

import (
	"context"
	"fmt"

	"github.com/aDevMister/my-assesment/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo dials cfg.URI, pings the server and returns the client along
// with the users collection. Callers disconnect the client on shutdown.
func ConnectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, *mongo.Collection, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo: MONGODB_URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database).Collection(cfg.Collection), nil
}
