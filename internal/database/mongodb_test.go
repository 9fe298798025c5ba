package database

import (
	"context"
	"testing"
	"time"

	"github.com/aDevMister/my-assesment/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConnectMongoRequiresURI(t *testing.T) {
	_, _, err := ConnectMongo(context.Background(), config.MongoDBConfig{Timeout: time.Second})
	require.ErrorContains(t, err, "MONGODB_URI")
}
