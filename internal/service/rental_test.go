package service

import (
	"context"
	"errors"
	"testing"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEngineWithBike(t *testing.T) (*ledger.Engine, domain.Bike) {
	t.Helper()
	engine := ledger.New(nil)
	bike := engine.AddBike("1", "", 0)
	return engine, bike
}

func TestRentalService_StartRental(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists after commit", func(t *testing.T) {
		engine, bike := newEngineWithBike(t)
		store := new(MockSnapshotStore)
		store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
		svc := NewRentalService(engine, store, nil)

		rental, err := svc.StartRental(ctx, ledger.StartRentalParams{BikeID: bike.ID, Deposit: 500})
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, rental.Status)
		store.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("Validation failure does not persist", func(t *testing.T) {
		engine, _ := newEngineWithBike(t)
		store := new(MockSnapshotStore)
		svc := NewRentalService(engine, store, nil)

		_, err := svc.StartRental(ctx, ledger.StartRentalParams{})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		store.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("Store failure is swallowed", func(t *testing.T) {
		engine, bike := newEngineWithBike(t)
		store := new(MockSnapshotStore)
		store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(errors.New("disk full"))
		svc := NewRentalService(engine, store, nil)

		_, err := svc.StartRental(ctx, ledger.StartRentalParams{BikeID: bike.ID})
		assert.NoError(t, err, "local state is the source of truth")
	})
}

func TestRentalService_ApplyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects non-positive amounts", func(t *testing.T) {
		engine, bike := newEngineWithBike(t)
		store := new(MockSnapshotStore)
		store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
		svc := NewRentalService(engine, store, nil)
		rental, err := svc.StartRental(ctx, ledger.StartRentalParams{BikeID: bike.ID})
		require.NoError(t, err)
		store.Calls = nil

		_, err = svc.ApplyPayment(ctx, rental.ID, 0)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		_, err = svc.ApplyPayment(ctx, rental.ID, -50)
		assert.ErrorAs(t, err, &verr)
		store.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("Prints a receipt", func(t *testing.T) {
		engine, bike := newEngineWithBike(t)
		store := new(MockSnapshotStore)
		store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
		printer := new(MockPrinter)
		printer.On("Print", ctx, mock.AnythingOfType("domain.Entry")).Return(nil)
		svc := NewRentalService(engine, store, printer)

		rental, err := svc.StartRental(ctx, ledger.StartRentalParams{BikeID: bike.ID})
		require.NoError(t, err)

		payment, err := svc.ApplyPayment(ctx, rental.ID, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(200), payment.Amount)
		printer.AssertNumberOfCalls(t, "Print", 1)
	})

	t.Run("Printer failure does not fail the payment", func(t *testing.T) {
		engine, bike := newEngineWithBike(t)
		store := new(MockSnapshotStore)
		store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
		printer := new(MockPrinter)
		printer.On("Print", ctx, mock.AnythingOfType("domain.Entry")).Return(errors.New("printer offline"))
		svc := NewRentalService(engine, store, printer)

		rental, err := svc.StartRental(ctx, ledger.StartRentalParams{BikeID: bike.ID})
		require.NoError(t, err)

		_, err = svc.ApplyPayment(ctx, rental.ID, 100)
		assert.NoError(t, err)
		got, err := svc.GetRental(ctx, rental.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Paid)
	})
}

func TestRentalService_FinalizeWithWithhold(t *testing.T) {
	ctx := context.Background()
	engine, bike := newEngineWithBike(t)
	store := new(MockSnapshotStore)
	store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
	svc := NewRentalService(engine, store, nil)

	rental, err := svc.StartRental(ctx, ledger.StartRentalParams{BikeID: bike.ID, Deposit: 500})
	require.NoError(t, err)

	t.Run("Negative withhold rejected before any mutation", func(t *testing.T) {
		_, err := svc.FinalizeWithWithhold(ctx, rental.ID, -1)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		got, err := svc.GetRental(ctx, rental.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, got.Status)
	})

	t.Run("Finalizes and frees bike", func(t *testing.T) {
		got, err := svc.FinalizeWithWithhold(ctx, rental.ID, 700)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusFinished, got.Status)
	})
}

func TestBikeService(t *testing.T) {
	ctx := context.Background()
	engine := ledger.New(nil)
	store := new(MockSnapshotStore)
	store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
	svc := NewBikeService(engine, store)

	bike, err := svc.AddBike(ctx, "5", "", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPricePerDay, bike.PricePerDay)

	bike.PricePerDay = 200
	require.NoError(t, svc.EditBike(ctx, bike))

	var nferr *domain.NotFoundError
	assert.ErrorAs(t, svc.EditBike(ctx, domain.Bike{ID: 99}), &nferr)
	assert.ErrorAs(t, svc.RemoveBike(ctx, 99), &nferr)

	require.NoError(t, svc.RemoveBike(ctx, bike.ID))
	bikes, err := svc.ListBikes(ctx)
	require.NoError(t, err)
	assert.Empty(t, bikes)
}

func TestSnapshotService_ImportExport(t *testing.T) {
	ctx := context.Background()
	engine := ledger.New(nil)
	engine.AddBike("1", "", 0)
	store := new(MockSnapshotStore)
	store.On("Save", mock.AnythingOfType("*domain.Snapshot")).Return(nil)
	svc := NewSnapshotService(engine, store)

	data, err := svc.Export(ctx)
	require.NoError(t, err)

	t.Run("Bad document rejected, nothing persisted", func(t *testing.T) {
		err := svc.Import(ctx, []byte(`{"bikes": []}`))
		var ferr *domain.FormatError
		assert.ErrorAs(t, err, &ferr)
		store.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("Round trip persists", func(t *testing.T) {
		require.NoError(t, svc.Import(ctx, data))
		store.AssertNumberOfCalls(t, "Save", 1)
	})
}
