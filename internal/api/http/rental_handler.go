package http

import (
	"net/http"
	"strconv"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/pricing"
	"velokassa-backend/internal/service"
)

// RentalHandler exposes the rental lifecycle over HTTP
type RentalHandler struct {
	rentals service.RentalService
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type startRentalRequest struct {
	BikeID      int64  `json:"bikeId"`
	RenterName  string `json:"renterName"`
	RenterPhone string `json:"renterPhone"`
	StartDate   string `json:"startDate"`
	Accrued     int64  `json:"accrued"`
	Deposit     int64  `json:"deposit"`
	Notes       string `json:"notes"`
}

// Start opens a rental on a bike
func (h *RentalHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentals.StartRental(r.Context(), ledger.StartRentalParams{
		BikeID:      req.BikeID,
		RenterName:  req.RenterName,
		RenterPhone: req.RenterPhone,
		StartDate:   req.StartDate,
		Accrued:     req.Accrued,
		Deposit:     req.Deposit,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

// List returns rentals, optionally filtered by status and a free-text
// query over renter name, phone and bike id
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.RentalStatus(r.URL.Query().Get("status"))
	query := r.URL.Query().Get("q")
	rentals, err := h.rentals.ListRentals(r.Context(), status, query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// Get returns a single rental
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.rentals.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// Pay records a payment against a rental
func (h *RentalHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	payment, err := h.rentals.ApplyPayment(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// Finish closes a rental, optionally adding a final charge to the
// accrued total
func (h *RentalHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		ExtraCharge int64 `json:"extraCharge"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentals.FinishRental(r.Context(), id, req.ExtraCharge)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// Quote suggests a rental cost for a date range at a daily rate. It is
// purely advisory; nothing is recorded.
func (h *RentalHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pricePerDay, _ := strconv.ParseInt(q.Get("pricePerDay"), 10, 64)
	quote, err := pricing.EstimateCost(q.Get("startDate"), q.Get("endDate"), pricePerDay)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Finalize closes a rental and withholds part of its deposit
func (h *RentalHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Withhold int64 `json:"withhold"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	rental, err := h.rentals.FinalizeWithWithhold(r.Context(), id, req.Withhold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
