package domain

// Deposit is money held against a rental, or taken manually with no
// rental attached. RentalID is zero for manual deposits.
type Deposit struct {
	ID       int64  `json:"id"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
	Title    string `json:"title,omitempty"`
	RentalID int64  `json:"rentalId,omitempty"`
}

// Entry is the common shape of the append-only money records: sales,
// charges, expenses and payments. Entries are never mutated after
// creation. RentalID links payments and deposit-withhold charges back
// to the rental that produced them.
type Entry struct {
	ID       int64  `json:"id"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
	Title    string `json:"title,omitempty"`
	Note     string `json:"note,omitempty"`
	RentalID int64  `json:"rentalId,omitempty"`
}

// Client is an optional passthrough collection, kept for snapshot and
// remote-sync compatibility. Nothing in the engine derives from it.
type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
