package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mzielinski/habitloop/internal/auth"
	"github.com/mzielinski/habitloop/internal/database"
	"github.com/mzielinski/habitloop/internal/logging"
	"github.com/mzielinski/habitloop/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("HABITLOOP_LOG_LEVEL"))

	port := os.Getenv("HABITLOOP_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("HABITLOOP_DB_PATH")
	if dbPath == "" {
		dbPath = "habitloop.db"
	}

	secret := os.Getenv("HABITLOOP_JWT_SECRET")
	if secret == "" {
		logger.Error("HABITLOOP_JWT_SECRET is required")
		os.Exit(1)
	}

	tokens, err := auth.NewTokens(secret, 0)
	if err != nil {
		logger.Error("token setup", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, tokens, nil, logger)

	// Drop expired rate-limit windows so the map doesn't grow forever.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Habitloop running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
