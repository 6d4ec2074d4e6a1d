package storage

import (
	"os"
	"path/filepath"
	"testing"

	"velokassa-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshot.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	snap := DemoSnapshot()
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)

	_, err = store.Load()
	assert.Error(t, err)
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bikes": []}`), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.Error(t, err, "snapshot without rentals table is corrupt")
}

func TestDemoSnapshot(t *testing.T) {
	snap := DemoSnapshot()

	assert.Len(t, snap.Bikes, 8)
	assert.Equal(t, domain.BikeStatusRented, snap.Bikes[0].Status)
	assert.Equal(t, int64(150), snap.Bikes[0].PricePerDay)
	for _, b := range snap.Bikes[1:] {
		assert.Equal(t, domain.BikeStatusFree, b.Status)
		assert.Equal(t, int64(120), b.PricePerDay)
	}

	require.Len(t, snap.Rentals, 1)
	assert.Equal(t, domain.RentalStatusOverdue, snap.Rentals[0].Status)
	assert.Equal(t, int64(2200), snap.Rentals[0].Accrued)
	require.Len(t, snap.Deposits, 1)
	assert.Equal(t, snap.Rentals[0].ID, snap.Deposits[0].RentalID)
}
