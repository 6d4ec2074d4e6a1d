package service

import (
	"context"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
	"velokassa-backend/internal/metrics"
)

type BikeService interface {
	AddBike(ctx context.Context, number string, status domain.BikeStatus, pricePerDay int64) (domain.Bike, error)
	EditBike(ctx context.Context, bike domain.Bike) error
	RemoveBike(ctx context.Context, id int64) error
	ListBikes(ctx context.Context) ([]domain.Bike, error)
}

type RentalService interface {
	StartRental(ctx context.Context, params ledger.StartRentalParams) (domain.Rental, error)
	ApplyPayment(ctx context.Context, rentalID, amount int64) (domain.Entry, error)
	FinishRental(ctx context.Context, rentalID, extraCharge int64) (domain.Rental, error)
	FinalizeWithWithhold(ctx context.Context, rentalID, withhold int64) (domain.Rental, error)
	ListRentals(ctx context.Context, status domain.RentalStatus, query string) ([]domain.Rental, error)
	GetRental(ctx context.Context, rentalID int64) (domain.Rental, error)
}

type MoneyService interface {
	AddDeposit(ctx context.Context, amount int64, title, date string) (domain.Deposit, error)
	AddSale(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error)
	AddCharge(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error)
	AddExpense(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error)
	Aggregates(ctx context.Context) (domain.Aggregates, error)
}

type SnapshotService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) error
}

// SnapshotStore is the persistence collaborator every mutation writes
// through, fire-and-forget.
type SnapshotStore interface {
	Save(snap *domain.Snapshot) error
}

// persister is shared by all services: after a committed mutation it
// writes the full snapshot to the local store. Store failures are
// logged and swallowed; in-memory state is the source of truth.
type persister struct {
	engine *ledger.Engine
	store  SnapshotStore
}

func (p *persister) persist(ctx context.Context, operation string) {
	metrics.Operations.WithLabelValues(operation).Inc()
	if p.store == nil {
		return
	}
	if err := p.store.Save(p.engine.Snapshot()); err != nil {
		logger.ErrorContext(ctx, "Failed to persist snapshot", "operation", operation, "error", err)
		metrics.SnapshotSaveFailures.Inc()
		return
	}
	metrics.SnapshotSaves.Inc()
}
