/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PflegeNetz admin console server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize zap logger
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Seed demo data when the store is empty (unless -no-seed)
  6. Start the digest scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -db       SQLite database path (default: pflegenetz.db)
            Use ":memory:" for an in-memory database
  -no-seed  Skip demo seeding on an empty store
  -dev      Human-readable console logging

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/pflegenetz.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/healthreply/pflegenetz/api"
	"github.com/healthreply/pflegenetz/store"
	"github.com/healthreply/pflegenetz/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "pflegenetz.db", "SQLite database path")
	noSeed := flag.Bool("no-seed", false, "skip demo seeding on an empty store")
	dev := flag.Bool("dev", false, "human-readable console logging")
	flag.Parse()

	log, err := newLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	st, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.String("path", *dbPath), zap.Error(err))
	}
	defer st.Close()

	handler := api.NewHandler(st, log)

	// Seed on first start so every console screen renders non-empty.
	if !*noSeed {
		if err := seedIfEmpty(context.Background(), st, handler, log); err != nil {
			log.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	scheduler := api.NewDigestScheduler(st, handler)
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.Int("port", *port),
			zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// seedIfEmpty loads the demo facility when the store has no users yet.
func seedIfEmpty(ctx context.Context, st store.Store, h *api.Handler, log *zap.Logger) error {
	_, ok, err := st.Load(ctx, store.KeyUsers)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	log.Info("empty store, seeding demo data")
	return h.LoadDemo(ctx)
}
