package service

import (
	"context"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/logger"
)

type bikeService struct {
	persister
}

func NewBikeService(engine *ledger.Engine, store SnapshotStore) BikeService {
	return &bikeService{persister{engine: engine, store: store}}
}

func (s *bikeService) AddBike(ctx context.Context, number string, status domain.BikeStatus, pricePerDay int64) (domain.Bike, error) {
	bike := s.engine.AddBike(number, status, pricePerDay)
	logger.InfoContext(ctx, "Bike added", "bike_id", bike.ID, "number", bike.Number)
	s.persist(ctx, "add_bike")
	return bike, nil
}

// EditBike surfaces the engine's silent no-op as a NotFoundError so API
// callers can tell the difference.
func (s *bikeService) EditBike(ctx context.Context, bike domain.Bike) error {
	if !s.engine.EditBike(bike) {
		return &domain.NotFoundError{Kind: "bike", ID: bike.ID}
	}
	s.persist(ctx, "edit_bike")
	return nil
}

func (s *bikeService) RemoveBike(ctx context.Context, id int64) error {
	if !s.engine.RemoveBike(id) {
		return &domain.NotFoundError{Kind: "bike", ID: id}
	}
	logger.InfoContext(ctx, "Bike removed", "bike_id", id)
	s.persist(ctx, "remove_bike")
	return nil
}

func (s *bikeService) ListBikes(ctx context.Context) ([]domain.Bike, error) {
	return s.engine.Bikes(), nil
}
