// Command token prints a console access token signed with AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/aDevMister/my-assesment/internal/config"
	"github.com/aDevMister/my-assesment/internal/tokens"
	"github.com/aDevMister/my-assesment/pkg/logger"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	name := flag.String("name", "Administrator", "display name")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("AUTH_JWT_SECRET is not set")
	}
	tok, err := tokens.GenerateAccessToken(cfg.Auth.JWTSecret, *subject, *name, *ttl)
	if err != nil {
		logger.Fatalf("generate token: %v", err)
	}
	fmt.Println(tok)
}
