package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fasms/internal/database"
	"fasms/internal/logging"
	"fasms/internal/server"
)

func main() {
	// Optional; environment variables win over the file.
	_ = godotenv.Load("config.env")

	logger := logging.Setup(os.Getenv("FASMS_LOG_LEVEL"))

	port := os.Getenv("FASMS_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("FASMS_DB_PATH")
	if dbPath == "" {
		dbPath = "fasms.db"
	}

	jwtSecret := os.Getenv("FASMS_JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FASMS_JWT_SECRET is required")
	}

	tokenTTL := 72 * time.Hour
	if hours := os.Getenv("FASMS_TOKEN_TTL_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n < 1 {
			log.Fatalf("invalid FASMS_TOKEN_TTL_HOURS: %q", hours)
		}
		tokenTTL = time.Duration(n) * time.Hour
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, jwtSecret, tokenTTL, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("fasms listening", "addr", fmt.Sprintf("http://localhost:%s", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
