package domain

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderOngoing  OrderStatus = "ongoing"
	OrderFinished OrderStatus = "finished"
)

// Valid reports whether s is one of the known order states.
func (s OrderStatus) Valid() bool {
	return s == OrderOngoing || s == OrderFinished
}

const (
	MinRate = 0
	MaxRate = 5
)

// Page is one slice of a filtered listing plus the total number of matches.
type Page[T any] struct {
	DocumentCount int64 `json:"documentCount"`
	Documents     []T   `json:"documents"`
}
