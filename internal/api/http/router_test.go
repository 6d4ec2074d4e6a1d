package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"velokassa-backend/internal/domain"
	"velokassa-backend/internal/ledger"
	"velokassa-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, *ledger.Engine) {
	t.Helper()
	engine := ledger.New(nil)
	router := NewRouter(Services{
		Bikes:     service.NewBikeService(engine, nil),
		Rentals:   service.NewRentalService(engine, nil, nil),
		Money:     service.NewMoneyService(engine, nil),
		Snapshots: service.NewSnapshotService(engine, nil),
	})
	return router, engine
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBikeEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/bikes", map[string]any{"number": "7"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bike domain.Bike
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bike))
	assert.Equal(t, "7", bike.Number)
	assert.Equal(t, domain.DefaultPricePerDay, bike.PricePerDay)

	rec = doJSON(t, router, "PUT", fmt.Sprintf("/api/v1/bikes/%d", bike.ID),
		map[string]any{"number": "7", "status": "broken", "pricePerDay": 90})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/v1/bikes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bikes []domain.Bike
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bikes))
	require.Len(t, bikes, 1)
	assert.Equal(t, domain.BikeStatusBroken, bikes[0].Status)

	rec = doJSON(t, router, "PUT", "/api/v1/bikes/99", map[string]any{"number": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "DELETE", fmt.Sprintf("/api/v1/bikes/%d", bike.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/v1/bikes/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRentalEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/bikes", map[string]any{"number": "1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bike domain.Bike
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bike))

	t.Run("Start requires a bike", func(t *testing.T) {
		rec := doJSON(t, router, "POST", "/api/v1/rentals", map[string]any{"renterName": "Ivanov"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = doJSON(t, router, "POST", "/api/v1/rentals", map[string]any{
		"bikeId":     bike.ID,
		"renterName": "Ivanov",
		"accrued":    600,
		"deposit":    500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var rental domain.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rental))
	assert.Equal(t, domain.RentalStatusActive, rental.Status)

	t.Run("Payment", func(t *testing.T) {
		rec := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/rentals/%d/payments", rental.ID),
			map[string]any{"amount": 200})
		require.Equal(t, http.StatusCreated, rec.Code)
		var payment domain.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
		assert.Equal(t, int64(200), payment.Amount)

		rec = doJSON(t, router, "POST", fmt.Sprintf("/api/v1/rentals/%d/payments", rental.ID),
			map[string]any{"amount": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, router, "POST", "/api/v1/rentals/99/payments", map[string]any{"amount": 50})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("List filters", func(t *testing.T) {
		rec := doJSON(t, router, "GET", "/api/v1/rentals?status=active&q=ivan", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var rentals []domain.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rentals))
		require.Len(t, rentals, 1)

		rec = doJSON(t, router, "GET", "/api/v1/rentals?q=nobody", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rentals))
		assert.Empty(t, rentals)
	})

	t.Run("Finalize withholds from deposit", func(t *testing.T) {
		rec := doJSON(t, router, "POST", fmt.Sprintf("/api/v1/rentals/%d/finalize", rental.ID),
			map[string]any{"withhold": 700})
		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.RentalStatusFinished, got.Status)
		require.NotNil(t, got.EndDate)
	})
}

func TestFinishEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/bikes", map[string]any{"number": "2"})
	var bike domain.Bike
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bike))
	rec = doJSON(t, router, "POST", "/api/v1/rentals", map[string]any{"bikeId": bike.ID, "accrued": 300})
	var rental domain.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rental))

	rec = doJSON(t, router, "POST", fmt.Sprintf("/api/v1/rentals/%d/finish", rental.ID),
		map[string]any{"extraCharge": 150})
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(450), got.Accrued)
	assert.Equal(t, domain.RentalStatusFinished, got.Status)
}

func TestMoneyEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/v1/sales", map[string]any{"amount": 1000, "title": "helmet"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, "POST", "/api/v1/expenses", map[string]any{"amount": 300})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, "POST", "/api/v1/deposits", map[string]any{"amount": 500, "title": "deposit Ivanov"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, "POST", "/api/v1/charges", map[string]any{"amount": 100})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/api/v1/aggregates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var agg domain.Aggregates
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	assert.Equal(t, int64(1000), agg.SalesSum)
	assert.Equal(t, int64(300), agg.ExpensesSum)
	assert.Equal(t, int64(100), agg.ChargesSum)
	assert.Equal(t, int64(600), agg.Balance)
}

func TestSnapshotEndpoints(t *testing.T) {
	router, engine := newTestRouter(t)
	engine.AddBike("1", "", 0)

	rec := doJSON(t, router, "GET", "/api/v1/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.Bytes()

	t.Run("Rejects malformed document", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/v1/snapshot", bytes.NewReader([]byte(`{"bikes": []}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Round trip", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/v1/snapshot", bytes.NewReader(exported))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, engine.Bikes(), 1)
	})
}

func TestQuoteEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/v1/quote?startDate=2025-06-01&endDate=2025-06-05&pricePerDay=150", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quote struct {
		Days  int   `json:"days"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 5, quote.Days)
	assert.Equal(t, int64(750), quote.Total)

	rec = doJSON(t, router, "GET", "/api/v1/quote?startDate=bad&endDate=2025-06-05", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
