package domain

// Snapshot is the whole ledger state. It is the unit of persistence,
// import/export and remote sync; every record is owned by it.
type Snapshot struct {
	Bikes    []Bike    `json:"bikes"`
	Rentals  []Rental  `json:"rentals"`
	Deposits []Deposit `json:"deposits"`
	Sales    []Entry   `json:"sales"`
	Charges  []Entry   `json:"charges"`
	Expenses []Entry   `json:"expenses"`
	Payments []Entry   `json:"payments"`
	Clients  []Client  `json:"clients,omitempty"`
}

// Normalize replaces nil collections with empty ones so a serialized
// snapshot always carries every table.
func (s *Snapshot) Normalize() {
	if s.Bikes == nil {
		s.Bikes = []Bike{}
	}
	if s.Rentals == nil {
		s.Rentals = []Rental{}
	}
	if s.Deposits == nil {
		s.Deposits = []Deposit{}
	}
	if s.Sales == nil {
		s.Sales = []Entry{}
	}
	if s.Charges == nil {
		s.Charges = []Entry{}
	}
	if s.Expenses == nil {
		s.Expenses = []Entry{}
	}
	if s.Payments == nil {
		s.Payments = []Entry{}
	}
}

// Clone returns a deep copy. Readers get copies so no caller can
// observe a half-applied multi-collection mutation.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Bikes:    append([]Bike(nil), s.Bikes...),
		Rentals:  append([]Rental(nil), s.Rentals...),
		Deposits: append([]Deposit(nil), s.Deposits...),
		Sales:    append([]Entry(nil), s.Sales...),
		Charges:  append([]Entry(nil), s.Charges...),
		Expenses: append([]Entry(nil), s.Expenses...),
		Payments: append([]Entry(nil), s.Payments...),
	}
	if s.Clients != nil {
		c.Clients = append([]Client(nil), s.Clients...)
	}
	for i, r := range c.Rentals {
		if r.EndDate != nil {
			end := *r.EndDate
			c.Rentals[i].EndDate = &end
		}
	}
	c.Normalize()
	return c
}

// Aggregates are the derived sums over a snapshot. They are computed on
// every read and never stored.
type Aggregates struct {
	DepositsSum int64 `json:"depositsSum"`
	SalesSum    int64 `json:"salesSum"`
	PaymentsSum int64 `json:"paymentsSum"`
	ChargesSum  int64 `json:"chargesSum"`
	ExpensesSum int64 `json:"expensesSum"`
	Balance     int64 `json:"balance"`
}

func sumEntries(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// ComputeAggregates produces the derived sums and the balance:
// (sales + payments) - (expenses + charges).
func ComputeAggregates(s *Snapshot) Aggregates {
	a := Aggregates{
		SalesSum:    sumEntries(s.Sales),
		PaymentsSum: sumEntries(s.Payments),
		ChargesSum:  sumEntries(s.Charges),
		ExpensesSum: sumEntries(s.Expenses),
	}
	for _, d := range s.Deposits {
		a.DepositsSum += d.Amount
	}
	a.Balance = (a.SalesSum + a.PaymentsSum) - (a.ExpensesSum + a.ChargesSum)
	return a
}
