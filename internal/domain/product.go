package domain

import "time"

// Product represents a catalog item. Prices are whole rupees.
type Product struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Price        int64     `json:"price"`
	ComparePrice int64     `json:"compare_price,omitempty"`
	Stock        int       `json:"stock"`
	ImageURLs    []string  `json:"image_urls"`
	Sizes        []string  `json:"sizes"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InStock reports whether the requested quantity can be fulfilled.
func (p *Product) InStock(quantity int) bool {
	return p.Active && p.Stock >= quantity
}
