// Command devtoken mints access tokens for local development, signed with the
// configured JWT_SECRET. Production tokens come from the identity service.
//
// Usage:
//
//	go run ./cmd/devtoken -user 42
//	go run ./cmd/devtoken -user 1 -role service -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pawpals/pawpals-api/internal/config"
	"github.com/pawpals/pawpals-api/internal/pkg/jwt"
)

var (
	userID = flag.Int64("user", 0, "User ID to put in the token")
	role   = flag.String("role", jwt.RoleUser, "Token role: user, admin or service")
	ttl    = flag.Duration("ttl", 0, "Token lifetime (defaults to JWT_ACCESS_TTL)")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if cfg.IsProduction() {
		log.Fatal("Refusing to mint tokens with ENV=production")
	}
	if *userID <= 0 {
		log.Fatal("-user must be a positive user ID")
	}

	switch *role {
	case jwt.RoleUser, jwt.RoleAdmin, jwt.RoleService:
	default:
		log.Fatalf("Unknown role %q", *role)
	}

	lifetime := cfg.JWTAccessTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := jwt.NewService(cfg.JWTSecret, lifetime).GenerateAccessToken(*userID, *role)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
