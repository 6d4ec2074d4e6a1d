package http

import (
	"net/http"
	"strconv"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/service"

	"github.com/gorilla/mux"
)

// BikeHandler exposes the fleet over HTTP
type BikeHandler struct {
	bikes service.BikeService
}

// NewBikeHandler creates a new bike handler
func NewBikeHandler(bikes service.BikeService) *BikeHandler {
	return &BikeHandler{bikes: bikes}
}

type bikeRequest struct {
	Number      string            `json:"number"`
	Status      domain.BikeStatus `json:"status"`
	PricePerDay int64             `json:"pricePerDay"`
}

// List returns all bikes
func (h *BikeHandler) List(w http.ResponseWriter, r *http.Request) {
	bikes, err := h.bikes.ListBikes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bikes)
}

// Create adds a bike to the fleet
func (h *BikeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bikeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bike, err := h.bikes.AddBike(r.Context(), req.Number, req.Status, req.PricePerDay)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bike)
}

// Update replaces a bike record
func (h *BikeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req bikeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bike := domain.Bike{ID: id, Number: req.Number, Status: req.Status, PricePerDay: req.PricePerDay}
	if err := h.bikes.EditBike(r.Context(), bike); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bike)
}

// Delete removes a bike from the fleet
func (h *BikeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.bikes.RemoveBike(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// pathID parses the {id} path variable
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
