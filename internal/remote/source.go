package remote

import (
	"context"
	"database/sql"
	"fmt"

	"velokassa-backend/internal/domain"
)

// Source is the startup-only remote backend. When it is unconfigured
// the sync is skipped entirely and local state stays authoritative.
type Source interface {
	Configured() bool
	// FetchAll reads every record table. Collections the backend
	// returned are non-nil in the result and overwrite local state
	// last-write-wins; there is no merge.
	FetchAll(ctx context.Context) (*domain.Snapshot, error)
}

// Unconfigured is the explicit no-backend variant.
type Unconfigured struct{}

func (Unconfigured) Configured() bool { return false }

func (Unconfigured) FetchAll(ctx context.Context) (*domain.Snapshot, error) {
	return &domain.Snapshot{}, nil
}

// PostgresSource fetches the eight record tables from a remote
// Postgres database. Column names are quoted because the remote schema
// uses the same camelCase identifiers as the snapshot JSON.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Configured() bool { return s.db != nil }

func (s *PostgresSource) FetchAll(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	var err error
	if snap.Bikes, err = s.fetchBikes(ctx); err != nil {
		return nil, fmt.Errorf("fetch bikes: %w", err)
	}
	if snap.Clients, err = s.fetchClients(ctx); err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}
	if snap.Rentals, err = s.fetchRentals(ctx); err != nil {
		return nil, fmt.Errorf("fetch rentals: %w", err)
	}
	if snap.Payments, err = s.fetchEntries(ctx, "payments"); err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	if snap.Expenses, err = s.fetchEntries(ctx, "expenses"); err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	if snap.Charges, err = s.fetchEntries(ctx, "charges"); err != nil {
		return nil, fmt.Errorf("fetch charges: %w", err)
	}
	if snap.Sales, err = s.fetchEntries(ctx, "sales"); err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	if snap.Deposits, err = s.fetchDeposits(ctx); err != nil {
		return nil, fmt.Errorf("fetch deposits: %w", err)
	}
	return snap, nil
}

func (s *PostgresSource) fetchBikes(ctx context.Context) ([]domain.Bike, error) {
	query := `SELECT id, number, status, "pricePerDay" FROM bikes ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bikes := []domain.Bike{}
	for rows.Next() {
		var b domain.Bike
		if err := rows.Scan(&b.ID, &b.Number, &b.Status, &b.PricePerDay); err != nil {
			return nil, err
		}
		bikes = append(bikes, b)
	}
	return bikes, rows.Err()
}

func (s *PostgresSource) fetchClients(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT id, name, COALESCE(phone, '') FROM clients ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *PostgresSource) fetchRentals(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT id, "bikeId", COALESCE("renterName", ''), COALESCE("renterPhone", ''),
	          "startDate", "endDate", status, accrued, paid, COALESCE(deposit, 0), COALESCE(notes, '')
	          FROM rentals ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		var r domain.Rental
		var endDate sql.NullString
		if err := rows.Scan(&r.ID, &r.BikeID, &r.RenterName, &r.RenterPhone,
			&r.StartDate, &endDate, &r.Status, &r.Accrued, &r.Paid, &r.Deposit, &r.Notes); err != nil {
			return nil, err
		}
		if endDate.Valid {
			r.EndDate = &endDate.String
		}
		rentals = append(rentals, r)
	}
	return rentals, rows.Err()
}

func (s *PostgresSource) fetchDeposits(ctx context.Context) ([]domain.Deposit, error) {
	query := `SELECT id, amount, date, COALESCE(title, ''), COALESCE("rentalId", 0) FROM deposits ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deposits := []domain.Deposit{}
	for rows.Next() {
		var d domain.Deposit
		if err := rows.Scan(&d.ID, &d.Amount, &d.Date, &d.Title, &d.RentalID); err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

func (s *PostgresSource) fetchEntries(ctx context.Context, table string) ([]domain.Entry, error) {
	query := fmt.Sprintf(`SELECT id, amount, date, COALESCE(title, ''), COALESCE(note, ''), COALESCE("rentalId", 0) FROM %s ORDER BY id`, table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Amount, &e.Date, &e.Title, &e.Note, &e.RentalID); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
