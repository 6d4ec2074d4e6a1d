package service

import (
	"context"

	"velokassa-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSnapshotStore
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Save(snap *domain.Snapshot) error {
	args := m.Called(snap)
	return args.Error(0)
}

// MockPrinter
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) Print(ctx context.Context, payment domain.Entry) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
