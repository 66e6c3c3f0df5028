// gen-jwt prints a session token for load testing. Run from project root: go run ./scripts/gen-jwt -user <uuid>
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"todo-app/internal/auth"
	"todo-app/internal/config"
)

func main() {
	userID := flag.String("user", "", "User id to embed (default: random uuid)")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	issuer := flag.String("issuer", "", "Token issuer (default: $JWT_ISSUER or todo-app)")
	flag.Parse()

	config.LoadEnvFile(".env")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}
	if *issuer == "" {
		*issuer = os.Getenv("JWT_ISSUER")
	}
	if *issuer == "" {
		*issuer = "todo-app"
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}

	tm, err := auth.NewTokenManager(secret, *issuer, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	signed, err := tm.Issue(*userID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
