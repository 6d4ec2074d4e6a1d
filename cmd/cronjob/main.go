package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"velokassa-backend/internal/config"
	"velokassa-backend/internal/jobs"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
	"velokassa-backend/internal/scheduler"
	"velokassa-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-overdue-rentals', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Velokassa cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize snapshot store and load state. Unlike the server, the
	// cronjob has nothing to do without a stored snapshot.
	store, err := storage.NewFileStore(cfg.Storage.SnapshotPath)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	snap, err := store.Load()
	if err != nil {
		log.Fatalf("No usable snapshot at %s: %v", cfg.Storage.SnapshotPath, err)
	}
	engine := ledger.New(snap)
	logger.Info("Loaded snapshot", "bikes", len(snap.Bikes), "rentals", len(snap.Rentals))

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(engine, store, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "mark-overdue-rentals":
		jobRunner.MarkOverdueRentals()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - mark-overdue-rentals\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
