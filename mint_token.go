//go:build ignore

// mint_token prints an admin API token for scripts and CI.
//
//	go run mint_token.go -subject ci-bot -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fetchops/ai-project-catalog/api"
	"github.com/fetchops/ai-project-catalog/config"
)

func main() {
	subject := flag.String("subject", "cli", "token subject recorded in logs")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := config.GetString(config.New(), "API_TOKEN_SECRET", "")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "API_TOKEN_SECRET is not set")
		os.Exit(1)
	}

	token, err := api.MintAdminToken([]byte(secret), *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mint token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
