package jobs

import (
	"velokassa-backend/internal/logger"
	"velokassa-backend/internal/metrics"
)

// MarkOverdueRentals marks active rentals as overdue once they have
// been open longer than the configured grace period.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		grace := jr.config.Rental.OverdueGraceDays

		marked := jr.engine.MarkOverdue(grace)
		if len(marked) == 0 {
			logger.Info("No rentals past the grace period", "grace_days", grace)
			return
		}

		logger.Info("Marked rentals as overdue", "count", len(marked), "grace_days", grace)
		for _, rental := range marked {
			logger.Debug("Marked rental as overdue",
				"rental_id", rental.ID,
				"renter", rental.RenterName,
				"bike_id", rental.BikeID,
				"start_date", rental.StartDate)
		}

		metrics.Operations.WithLabelValues("mark_overdue").Inc()
		if jr.store == nil {
			return
		}
		if err := jr.store.Save(jr.engine.Snapshot()); err != nil {
			logger.Error("Failed to persist snapshot after overdue pass", "error", err)
			metrics.SnapshotSaveFailures.Inc()
			return
		}
		metrics.SnapshotSaves.Inc()
	})
}
