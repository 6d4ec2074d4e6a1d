package domain

type BikeStatus string

const (
	BikeStatusFree   BikeStatus = "free"
	BikeStatusRented BikeStatus = "rented"
	BikeStatusBroken BikeStatus = "broken"
)

// DefaultPricePerDay is used when a bike is added without a price.
const DefaultPricePerDay int64 = 120

type Bike struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	Status      BikeStatus `json:"status"`
	PricePerDay int64      `json:"pricePerDay"`
}
