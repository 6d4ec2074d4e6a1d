package service

import (
	"context"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
)

type moneyService struct {
	persister
}

func NewMoneyService(engine *ledger.Engine, store SnapshotStore) MoneyService {
	return &moneyService{persister{engine: engine, store: store}}
}

// Amount signs are not validated on the append-only records; the UI is
// expected to coach users.

func (s *moneyService) AddDeposit(ctx context.Context, amount int64, title, date string) (domain.Deposit, error) {
	dep := s.engine.AddDeposit(amount, title, date)
	s.persist(ctx, "add_deposit")
	return dep, nil
}

func (s *moneyService) AddSale(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error) {
	entry := s.engine.AddSale(amount, title, note, date)
	s.persist(ctx, "add_sale")
	return entry, nil
}

func (s *moneyService) AddCharge(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error) {
	entry := s.engine.AddCharge(amount, title, note, date)
	s.persist(ctx, "add_charge")
	return entry, nil
}

func (s *moneyService) AddExpense(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error) {
	entry := s.engine.AddExpense(amount, title, note, date)
	s.persist(ctx, "add_expense")
	return entry, nil
}

func (s *moneyService) Aggregates(ctx context.Context) (domain.Aggregates, error) {
	return s.engine.Aggregates(), nil
}
