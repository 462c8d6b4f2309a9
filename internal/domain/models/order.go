package models

import "time"

// Order mirrors the orders table. Customer, Business and Category hold record ids;
// Business is empty when no business is attached.
type Order struct {
	ID               string     `json:"id"`
	Customer         string     `json:"customer"`
	Business         string     `json:"business,omitempty"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	JobEstimatedTime *time.Time `json:"jobEstimatedTime,omitempty"`
	JobLocation      string     `json:"jobLocation"`
	Rate             *int       `json:"rate,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type CustomerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderDetail is an order with customer, business and category display fields expanded.
type OrderDetail struct {
	ID               string       `json:"id"`
	Customer         *CustomerRef `json:"customer"`
	Business         *BusinessRef `json:"business,omitempty"`
	Category         *CategoryRef `json:"category"`
	Status           string       `json:"status"`
	JobEstimatedTime *time.Time   `json:"jobEstimatedTime,omitempty"`
	JobLocation      string       `json:"jobLocation"`
	Rate             *int         `json:"rate,omitempty"`
	Comment          string       `json:"comment,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}
