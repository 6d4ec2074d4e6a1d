package http

import (
	"context"
	"net/http"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/service"
)

// MoneyHandler exposes the append-only ledger entries and the computed
// aggregates over HTTP
type MoneyHandler struct {
	money service.MoneyService
}

// NewMoneyHandler creates a new money handler
func NewMoneyHandler(money service.MoneyService) *MoneyHandler {
	return &MoneyHandler{money: money}
}

type entryRequest struct {
	Amount int64  `json:"amount"`
	Title  string `json:"title"`
	Note   string `json:"note"`
	Date   string `json:"date"`
}

// CreateDeposit records a standalone deposit
func (h *MoneyHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dep, err := h.money.AddDeposit(r.Context(), req.Amount, req.Title, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dep)
}

// CreateSale records a sale
func (h *MoneyHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	h.createEntry(w, r, h.money.AddSale)
}

// CreateCharge records a charge
func (h *MoneyHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	h.createEntry(w, r, h.money.AddCharge)
}

// CreateExpense records an expense
func (h *MoneyHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	h.createEntry(w, r, h.money.AddExpense)
}

type addEntryFunc func(ctx context.Context, amount int64, title, note, date string) (domain.Entry, error)

func (h *MoneyHandler) createEntry(w http.ResponseWriter, r *http.Request, add addEntryFunc) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := add(r.Context(), req.Amount, req.Title, req.Note, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Aggregates returns balance and totals across all entry tables
func (h *MoneyHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	agg, err := h.money.Aggregates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}
