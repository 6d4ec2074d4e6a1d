package service

import (
	"context"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
	"velokassa-backend/internal/receipt"
)

type rentalService struct {
	persister
	printer receipt.Printer
}

func NewRentalService(engine *ledger.Engine, store SnapshotStore, printer receipt.Printer) RentalService {
	if printer == nil {
		printer = receipt.Nop{}
	}
	return &rentalService{
		persister: persister{engine: engine, store: store},
		printer:   printer,
	}
}

func (s *rentalService) StartRental(ctx context.Context, params ledger.StartRentalParams) (domain.Rental, error) {
	rental, err := s.engine.StartRental(params)
	if err != nil {
		return domain.Rental{}, err
	}
	logger.InfoContext(ctx, "Rental started", "rental_id", rental.ID, "bike_id", rental.BikeID, "deposit", rental.Deposit)
	s.persist(ctx, "start_rental")
	return rental, nil
}

func (s *rentalService) ApplyPayment(ctx context.Context, rentalID, amount int64) (domain.Entry, error) {
	if amount <= 0 {
		return domain.Entry{}, &domain.ValidationError{Reason: "payment amount must be positive"}
	}
	payment, err := s.engine.ApplyPayment(rentalID, amount)
	if err != nil {
		return domain.Entry{}, err
	}
	logger.InfoContext(ctx, "Payment applied", "rental_id", rentalID, "amount", amount)
	s.persist(ctx, "apply_payment")

	// Receipt printing is a side channel; its failure never fails the
	// payment.
	if err := s.printer.Print(ctx, payment); err != nil {
		logger.WarnContext(ctx, "Failed to print receipt", "rental_id", rentalID, "error", err)
	}
	return payment, nil
}

func (s *rentalService) FinishRental(ctx context.Context, rentalID, extraCharge int64) (domain.Rental, error) {
	rental, err := s.engine.FinishRental(rentalID, extraCharge)
	if err != nil {
		return domain.Rental{}, err
	}
	logger.InfoContext(ctx, "Rental finished", "rental_id", rentalID, "extra_charge", extraCharge)
	s.persist(ctx, "finish_rental")
	return rental, nil
}

func (s *rentalService) FinalizeWithWithhold(ctx context.Context, rentalID, withhold int64) (domain.Rental, error) {
	if withhold < 0 {
		return domain.Rental{}, &domain.ValidationError{Reason: "withhold amount must not be negative"}
	}
	rental, withheld, err := s.engine.FinalizeWithWithhold(rentalID, withhold)
	if err != nil {
		return domain.Rental{}, err
	}
	logger.InfoContext(ctx, "Rental finalized", "rental_id", rentalID, "requested_withhold", withhold, "withheld", withheld)
	s.persist(ctx, "finalize_rental")
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, status domain.RentalStatus, query string) ([]domain.Rental, error) {
	return s.engine.Rentals(status, query), nil
}

func (s *rentalService) GetRental(ctx context.Context, rentalID int64) (domain.Rental, error) {
	return s.engine.Rental(rentalID)
}
