package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "velokassa-backend/internal/api/http"
	"velokassa-backend/internal/config"
	"velokassa-backend/internal/jobs"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
	"velokassa-backend/internal/receipt"
	"velokassa-backend/internal/remote"
	"velokassa-backend/internal/scheduler"
	"velokassa-backend/internal/service"
	"velokassa-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Velokassa backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Initialize snapshot store
	store, err := storage.NewFileStore(cfg.Storage.SnapshotPath)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}

	// Load local state, falling back to the demo seed on first run or
	// when the stored snapshot is unreadable
	snap, err := store.Load()
	if err != nil {
		logger.Warn("No usable local snapshot, seeding demo data", "error", err)
		snap = storage.DemoSnapshot()
	} else {
		logger.Info("Loaded local snapshot",
			"bikes", len(snap.Bikes),
			"rentals", len(snap.Rentals))
	}
	engine := ledger.New(snap)

	// Pull the remote backend once at startup if configured. Remote
	// rows overwrite local ones table by table; failures are logged and
	// the local snapshot stays authoritative.
	if cfg.RemoteConfigured() {
		syncFromRemote(engine, store, cfg)
	} else {
		logger.Info("Remote backend not configured, skipping sync")
	}

	// Initialize receipt printer
	var printer receipt.Printer
	if cfg.Receipt.SpoolDir != "" {
		filePrinter, err := receipt.NewFilePrinter(cfg.Receipt.SpoolDir)
		if err != nil {
			logger.Warn("Failed to initialize receipt printer, receipts disabled", "error", err)
		} else {
			logger.Info("Receipt printer enabled", "spool_dir", cfg.Receipt.SpoolDir)
			printer = filePrinter
		}
	}

	// Initialize services
	bikeSvc := service.NewBikeService(engine, store)
	rentalSvc := service.NewRentalService(engine, store, printer)
	moneySvc := service.NewMoneyService(engine, store)
	snapshotSvc := service.NewSnapshotService(engine, store)

	// Initialize scheduler
	jobRunner := jobs.NewJobRunner(engine, store, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Bikes:     bikeSvc,
		Rentals:   rentalSvc,
		Money:     moneySvc,
		Snapshots: snapshotSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	cronScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server cleanly", "error", err)
	}

	// One last save so nothing recorded since the previous write is lost
	if err := store.Save(engine.Snapshot()); err != nil {
		logger.Error("Failed to persist snapshot on shutdown", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

// syncFromRemote fetches all tables from the remote backend and lays
// them over the local state. Any failure leaves local state untouched.
func syncFromRemote(engine *ledger.Engine, store storage.SnapshotStore, cfg *config.Config) {
	logger.Info("Syncing from remote backend",
		"host", cfg.Remote.Host, "port", cfg.Remote.Port, "database", cfg.Remote.Database)

	db, err := sql.Open("postgres", cfg.GetRemoteConnectionString())
	if err != nil {
		logger.Error("Failed to open remote connection, keeping local state", "error", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	source := remote.NewPostgresSource(db)
	overlay, err := source.FetchAll(ctx)
	if err != nil {
		logger.Error("Remote sync failed, keeping local state", "error", err)
		return
	}

	engine.Overwrite(overlay)
	if err := store.Save(engine.Snapshot()); err != nil {
		logger.Error("Failed to persist synced snapshot", "error", err)
		return
	}
	logger.Info("Remote sync completed",
		"bikes", len(overlay.Bikes), "rentals", len(overlay.Rentals))
}
