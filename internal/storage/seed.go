package storage

import (
	"strconv"

	"velokassa-backend/internal/domain"
)

// DemoSnapshot is the fallback state used when no stored snapshot can
// be loaded: a small fleet of eight bikes with bike #1 out on a sample
// overdue rental carrying a deposit.
func DemoSnapshot() *domain.Snapshot {
	bikes := make([]domain.Bike, 0, 8)
	for i := int64(1); i <= 8; i++ {
		b := domain.Bike{
			ID:          i,
			Number:      strconv.FormatInt(i, 10),
			Status:      domain.BikeStatusFree,
			PricePerDay: 120,
		}
		if i == 1 {
			b.Status = domain.BikeStatusRented
			b.PricePerDay = 150
		}
		bikes = append(bikes, b)
	}

	snap := &domain.Snapshot{
		Bikes: bikes,
		Rentals: []domain.Rental{
			{
				ID:          1,
				BikeID:      1,
				RenterName:  "Sharipov",
				RenterPhone: "99999999",
				StartDate:   "2025-01-01",
				Status:      domain.RentalStatusOverdue,
				Accrued:     2200,
				Paid:        0,
				Deposit:     500,
			},
		},
		Deposits: []domain.Deposit{
			{ID: 1, Amount: 500, Date: "2025-01-01", Title: "deposit Sharipov", RentalID: 1},
		},
	}
	snap.Normalize()
	return snap
}
