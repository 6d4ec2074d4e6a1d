package domain

type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "active"
	RentalStatusFinished RentalStatus = "finished"
	RentalStatusOverdue  RentalStatus = "overdue"
)

type Rental struct {
	ID          int64        `json:"id"`
	BikeID      int64        `json:"bikeId"`
	RenterName  string       `json:"renterName,omitempty"`
	RenterPhone string       `json:"renterPhone,omitempty"`
	StartDate   string       `json:"startDate"`
	EndDate     *string      `json:"endDate,omitempty"`
	Status      RentalStatus `json:"status"`
	Accrued     int64        `json:"accrued"`
	Paid        int64        `json:"paid"`
	Deposit     int64        `json:"deposit,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// Outstanding returns the debt still owed on the rental, clamped at zero.
// Overpayment is allowed, it just produces no negative debt here.
func (r *Rental) Outstanding() int64 {
	if d := r.Accrued - r.Paid; d > 0 {
		return d
	}
	return 0
}
