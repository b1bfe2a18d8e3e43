package main

import (
	"log"
	"net/http"
	"os"

	"assettrack/internal"
	"assettrack/internal/config"
)

func main() {
	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Validate database connection string
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Create and start server
	srv := internal.NewServer(dsn, cfg)

	log.Println("Starting assettrack store server...")
	log.Printf("JWT Issuer: %s", cfg.JWTIssuer)
	log.Printf("JWT Expiry: %v", cfg.JWTExpiry)
	log.Printf("Listening on %s", addr)

	log.Fatal(http.ListenAndServe(addr, srv.Router))
}
