package models

import "time"

// Business mirrors the businesses table. Orders and Categories are back-references
// loaded from orders.business_id and category_businesses.
type Business struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Postcode   string    `json:"postcode"`
	Orders     []string  `json:"orders"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BusinessRef is the display projection used when a business is expanded inside another record.
type BusinessRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}
