package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"velokassa-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Engine owns the ledger snapshot and enforces the rental/financial
// state transitions. Every operation either fully applies or is
// rejected before any mutation. The snapshot sits behind an RWMutex so
// readers never observe a half-applied multi-collection update.
type Engine struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
	now  func() time.Time
}

// New builds an engine around an initial snapshot. The snapshot is
// cloned; the engine is the only writer from here on.
func New(snap *domain.Snapshot) *Engine {
	if snap == nil {
		snap = &domain.Snapshot{}
	}
	return &Engine{
		snap: snap.Clone(),
		now:  time.Now,
	}
}

// SetClock overrides the engine clock. Used by tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

func (e *Engine) today() string {
	return e.now().Format(dateLayout)
}

// nextID assigns max(id)+1 within a collection, starting at 1.
func nextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}

// AddBike creates a bike. Empty status defaults to free, zero price to
// the default price per day. Always succeeds.
func (e *Engine) AddBike(number string, status domain.BikeStatus, pricePerDay int64) domain.Bike {
	e.mu.Lock()
	defer e.mu.Unlock()

	bike := domain.Bike{
		ID:          nextID(e.snap.Bikes, func(b domain.Bike) int64 { return b.ID }),
		Number:      number,
		Status:      status,
		PricePerDay: pricePerDay,
	}
	if bike.Status == "" {
		bike.Status = domain.BikeStatusFree
	}
	if bike.Number == "" {
		bike.Number = fmt.Sprintf("#%d", bike.ID)
	}
	if bike.PricePerDay == 0 {
		bike.PricePerDay = domain.DefaultPricePerDay
	}
	e.snap.Bikes = append(e.snap.Bikes, bike)
	return bike
}

// EditBike replaces the mutable fields of the bike matching bike.ID.
// Returns false without mutating anything when the id is unknown;
// callers should check.
func (e *Engine) EditBike(bike domain.Bike) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.snap.Bikes {
		if e.snap.Bikes[i].ID == bike.ID {
			e.snap.Bikes[i] = bike
			return true
		}
	}
	return false
}

// RemoveBike deletes the bike. There is no cascade check: an active
// rental still referencing the id is left dangling (known gap).
func (e *Engine) RemoveBike(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.snap.Bikes {
		if e.snap.Bikes[i].ID == id {
			e.snap.Bikes = append(e.snap.Bikes[:i], e.snap.Bikes[i+1:]...)
			return true
		}
	}
	return false
}

// Bikes returns a copy of the bike collection.
func (e *Engine) Bikes() []domain.Bike {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]domain.Bike(nil), e.snap.Bikes...)
}

// StartRentalParams carries the optional fields of StartRental.
type StartRentalParams struct {
	BikeID      int64
	RenterName  string
	RenterPhone string
	StartDate   string
	Accrued     int64
	Deposit     int64
	Notes       string
}

// StartRental creates an active rental, marks the bike rented and, when
// a deposit amount is given, appends a linked deposit record. The three
// collections mutate together under one lock.
func (e *Engine) StartRental(p StartRentalParams) (domain.Rental, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.BikeID == 0 {
		return domain.Rental{}, &domain.ValidationError{Reason: "no bike selected"}
	}
	bikeIdx := -1
	for i := range e.snap.Bikes {
		if e.snap.Bikes[i].ID == p.BikeID {
			bikeIdx = i
			break
		}
	}
	if bikeIdx < 0 {
		return domain.Rental{}, &domain.NotFoundError{Kind: "bike", ID: p.BikeID}
	}

	rental := domain.Rental{
		ID:          nextID(e.snap.Rentals, func(r domain.Rental) int64 { return r.ID }),
		BikeID:      p.BikeID,
		RenterName:  p.RenterName,
		RenterPhone: p.RenterPhone,
		StartDate:   p.StartDate,
		Status:      domain.RentalStatusActive,
		Accrued:     p.Accrued,
		Paid:        0,
		Deposit:     p.Deposit,
		Notes:       p.Notes,
	}
	if rental.StartDate == "" {
		rental.StartDate = e.today()
	}

	e.snap.Rentals = append(e.snap.Rentals, rental)
	e.snap.Bikes[bikeIdx].Status = domain.BikeStatusRented
	if p.Deposit > 0 {
		e.snap.Deposits = append(e.snap.Deposits, domain.Deposit{
			ID:       nextID(e.snap.Deposits, func(d domain.Deposit) int64 { return d.ID }),
			Amount:   p.Deposit,
			Date:     e.today(),
			Title:    strings.TrimSpace("deposit " + p.RenterName),
			RentalID: rental.ID,
		})
	}
	return rental, nil
}

// ApplyPayment increments the rental's paid amount and appends a linked
// payment entry dated today. Amounts are not checked against accrued:
// overpayment is allowed and only clamps to zero on display.
func (e *Engine) ApplyPayment(rentalID, amount int64) (domain.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.rentalIndex(rentalID)
	if idx < 0 {
		return domain.Entry{}, &domain.NotFoundError{Kind: "rental", ID: rentalID}
	}

	e.snap.Rentals[idx].Paid += amount
	payment := domain.Entry{
		ID:       nextID(e.snap.Payments, func(p domain.Entry) int64 { return p.ID }),
		Amount:   amount,
		Date:     e.today(),
		RentalID: rentalID,
	}
	e.snap.Payments = append(e.snap.Payments, payment)
	return payment, nil
}

// FinishRental marks the rental finished with endDate set to today,
// adds the extra charge to accrued and frees the bike. There is no
// active-status check: re-finishing an already finished rental is
// idempotent in outcome, with last-write-wins on endDate.
func (e *Engine) FinishRental(rentalID, extraCharge int64) (domain.Rental, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.rentalIndex(rentalID)
	if idx < 0 {
		return domain.Rental{}, &domain.NotFoundError{Kind: "rental", ID: rentalID}
	}

	end := e.today()
	e.snap.Rentals[idx].Status = domain.RentalStatusFinished
	e.snap.Rentals[idx].EndDate = &end
	e.snap.Rentals[idx].Accrued += extraCharge
	e.freeBike(e.snap.Rentals[idx].BikeID)
	return e.snap.Rentals[idx], nil
}

// FinalizeWithWithhold finishes the rental without touching accrued and
// withholds part of the linked deposit. The withheld amount is clamped
// to the deposit's current amount; a fully consumed deposit record is
// removed, a partially consumed one is decremented. Each withhold
// appends a charge titled "deposit withheld". When no deposit is linked
// the withhold is silently ignored. At most one deposit per rental is
// expected; the first match in insertion order is used.
func (e *Engine) FinalizeWithWithhold(rentalID, withhold int64) (domain.Rental, int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.rentalIndex(rentalID)
	if idx < 0 {
		return domain.Rental{}, 0, &domain.NotFoundError{Kind: "rental", ID: rentalID}
	}

	end := e.today()
	e.snap.Rentals[idx].Status = domain.RentalStatusFinished
	e.snap.Rentals[idx].EndDate = &end

	var withheld int64
	if withhold > 0 {
		for i := range e.snap.Deposits {
			if e.snap.Deposits[i].RentalID != rentalID {
				continue
			}
			dep := e.snap.Deposits[i]
			withheld = withhold
			if withheld > dep.Amount {
				withheld = dep.Amount
			}
			if withheld > 0 {
				e.snap.Charges = append(e.snap.Charges, domain.Entry{
					ID:       nextID(e.snap.Charges, func(c domain.Entry) int64 { return c.ID }),
					Amount:   withheld,
					Date:     e.today(),
					Title:    "deposit withheld",
					Note:     fmt.Sprintf("rental %d", rentalID),
					RentalID: rentalID,
				})
				if withheld >= dep.Amount {
					e.snap.Deposits = append(e.snap.Deposits[:i], e.snap.Deposits[i+1:]...)
				} else {
					e.snap.Deposits[i].Amount -= withheld
				}
			}
			break
		}
	}

	e.freeBike(e.snap.Rentals[idx].BikeID)
	return e.snap.Rentals[idx], withheld, nil
}

// AddDeposit appends a manual deposit with no rental attached.
func (e *Engine) AddDeposit(amount int64, title, date string) domain.Deposit {
	e.mu.Lock()
	defer e.mu.Unlock()

	dep := domain.Deposit{
		ID:     nextID(e.snap.Deposits, func(d domain.Deposit) int64 { return d.ID }),
		Amount: amount,
		Date:   date,
		Title:  title,
	}
	if dep.Date == "" {
		dep.Date = e.today()
	}
	e.snap.Deposits = append(e.snap.Deposits, dep)
	return dep
}

func (e *Engine) appendEntry(col *[]domain.Entry, amount int64, title, note, date, defaultTitle string) domain.Entry {
	entry := domain.Entry{
		ID:     nextID(*col, func(en domain.Entry) int64 { return en.ID }),
		Amount: amount,
		Date:   date,
		Title:  title,
		Note:   note,
	}
	if entry.Date == "" {
		entry.Date = e.today()
	}
	if entry.Title == "" {
		entry.Title = defaultTitle
	}
	*col = append(*col, entry)
	return entry
}

// AddSale appends a sale. Amount sign is not validated; callers are
// expected to coach users.
func (e *Engine) AddSale(amount int64, title, note, date string) domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.appendEntry(&e.snap.Sales, amount, title, note, date, "sale")
}

// AddCharge appends a charge.
func (e *Engine) AddCharge(amount int64, title, note, date string) domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.appendEntry(&e.snap.Charges, amount, title, note, date, "charge")
}

// AddExpense appends an expense.
func (e *Engine) AddExpense(amount int64, title, note, date string) domain.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.appendEntry(&e.snap.Expenses, amount, title, note, date, "expense")
}

// Aggregates recomputes the derived sums from the current snapshot.
// Never cached.
func (e *Engine) Aggregates() domain.Aggregates {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return domain.ComputeAggregates(e.snap)
}

// Rentals returns rentals filtered by status ("" or "all" for every
// rental) and an optional free-text query over renter name, phone and
// bike id.
func (e *Engine) Rentals(status domain.RentalStatus, query string) []domain.Rental {
	e.mu.RLock()
	defer e.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []domain.Rental
	for _, r := range e.snap.Rentals {
		if status != "" && status != "all" && r.Status != status {
			continue
		}
		if q != "" {
			name := strings.ToLower(r.RenterName)
			if !strings.Contains(name, q) &&
				!strings.Contains(r.RenterPhone, q) &&
				!strings.Contains(fmt.Sprintf("%d", r.BikeID), q) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Rental returns a single rental by id.
func (e *Engine) Rental(id int64) (domain.Rental, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if idx := e.rentalIndex(id); idx >= 0 {
		return e.snap.Rentals[idx], nil
	}
	return domain.Rental{}, &domain.NotFoundError{Kind: "rental", ID: id}
}

// MarkOverdue flips active rentals to overdue when their start date
// plus the grace period is strictly before today. Rentals with an
// unparseable start date are skipped. Returns the rentals it marked.
func (e *Engine) MarkOverdue(graceDays int) []domain.Rental {
	e.mu.Lock()
	defer e.mu.Unlock()

	todayT, _ := time.Parse(dateLayout, e.today())
	var marked []domain.Rental
	for i := range e.snap.Rentals {
		r := &e.snap.Rentals[i]
		if r.Status != domain.RentalStatusActive {
			continue
		}
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			continue
		}
		if start.AddDate(0, 0, graceDays).Before(todayT) {
			r.Status = domain.RentalStatusOverdue
			marked = append(marked, *r)
		}
	}
	return marked
}

// Snapshot returns a deep copy of the full state.
func (e *Engine) Snapshot() *domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Clone()
}

// Restore replaces the whole state. Used after a validated import.
func (e *Engine) Restore(snap *domain.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = snap.Clone()
}

// Overwrite replaces each collection that is non-nil in the overlay,
// last-write-wins. Nil collections are left alone. This is how remote
// sync results land at startup.
func (e *Engine) Overwrite(overlay *domain.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if overlay.Bikes != nil {
		e.snap.Bikes = append([]domain.Bike(nil), overlay.Bikes...)
	}
	if overlay.Rentals != nil {
		e.snap.Rentals = append([]domain.Rental(nil), overlay.Rentals...)
	}
	if overlay.Deposits != nil {
		e.snap.Deposits = append([]domain.Deposit(nil), overlay.Deposits...)
	}
	if overlay.Sales != nil {
		e.snap.Sales = append([]domain.Entry(nil), overlay.Sales...)
	}
	if overlay.Charges != nil {
		e.snap.Charges = append([]domain.Entry(nil), overlay.Charges...)
	}
	if overlay.Expenses != nil {
		e.snap.Expenses = append([]domain.Entry(nil), overlay.Expenses...)
	}
	if overlay.Payments != nil {
		e.snap.Payments = append([]domain.Entry(nil), overlay.Payments...)
	}
	if overlay.Clients != nil {
		e.snap.Clients = append([]domain.Client(nil), overlay.Clients...)
	}
}

// rentalIndex must be called with the lock held.
func (e *Engine) rentalIndex(id int64) int {
	for i := range e.snap.Rentals {
		if e.snap.Rentals[i].ID == id {
			return i
		}
	}
	return -1
}

// freeBike must be called with the lock held. Missing bikes are
// tolerated: the rental may reference a deleted bike.
func (e *Engine) freeBike(bikeID int64) {
	for i := range e.snap.Bikes {
		if e.snap.Bikes[i].ID == bikeID {
			e.snap.Bikes[i].Status = domain.BikeStatusFree
			return
		}
	}
}
