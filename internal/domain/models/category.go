package models

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Businesses  []string  `json:"businesses"`
	Orders      []string  `json:"orders"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryOrderRef is how an order is shown under an expanded category.
type CategoryOrderRef struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	CustomerEmail string `json:"customerEmail"`
}

// CategoryDetail is a category with its businesses and orders expanded.
type CategoryDetail struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Businesses  []BusinessRef      `json:"businesses"`
	Orders      []CategoryOrderRef `json:"orders"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
