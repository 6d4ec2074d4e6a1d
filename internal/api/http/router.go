package http

import (
	"net/http"

	"velokassa-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services holds all service dependencies needed by the HTTP API
type Services struct {
	Bikes     service.BikeService
	Rentals   service.RentalService
	Money     service.MoneyService
	Snapshots service.SnapshotService
}

// NewRouter builds the full API router
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()

	bikes := NewBikeHandler(svcs.Bikes)
	rentals := NewRentalHandler(svcs.Rentals)
	money := NewMoneyHandler(svcs.Money)
	snapshots := NewSnapshotHandler(svcs.Snapshots)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/bikes", bikes.List).Methods("GET")
	api.HandleFunc("/bikes", bikes.Create).Methods("POST")
	api.HandleFunc("/bikes/{id}", bikes.Update).Methods("PUT")
	api.HandleFunc("/bikes/{id}", bikes.Delete).Methods("DELETE")

	api.HandleFunc("/quote", rentals.Quote).Methods("GET")

	api.HandleFunc("/rentals", rentals.List).Methods("GET")
	api.HandleFunc("/rentals", rentals.Start).Methods("POST")
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}/payments", rentals.Pay).Methods("POST")
	api.HandleFunc("/rentals/{id}/finish", rentals.Finish).Methods("POST")
	api.HandleFunc("/rentals/{id}/finalize", rentals.Finalize).Methods("POST")

	api.HandleFunc("/deposits", money.CreateDeposit).Methods("POST")
	api.HandleFunc("/sales", money.CreateSale).Methods("POST")
	api.HandleFunc("/charges", money.CreateCharge).Methods("POST")
	api.HandleFunc("/expenses", money.CreateExpense).Methods("POST")
	api.HandleFunc("/aggregates", money.Aggregates).Methods("GET")

	api.HandleFunc("/snapshot", snapshots.Export).Methods("GET")
	api.HandleFunc("/snapshot", snapshots.Import).Methods("PUT")

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
