package jobs

import (
	"velokassa-backend/internal/config"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
	"velokassa-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	engine *ledger.Engine
	store  storage.SnapshotStore
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(engine *ledger.Engine, store storage.SnapshotStore, cfg *config.Config) *JobRunner {
	return &JobRunner{
		engine: engine,
		store:  store,
		config: cfg,
	}
}

// Config returns the configuration used by the jobs
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueRentals()
}
