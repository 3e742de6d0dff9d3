package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item; the authoritative copy lives on the remote service
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// Stock badge levels
const (
	StockHigh   = "high"
	StockMedium = "medium"
	StockLow    = "low"
)

// HasDiscount reports whether an original price should be shown
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage > 0 && p.DiscountPercentage < 100
}

// OriginalPrice derives the pre-discount price: price / (1 - discount/100),
// rounded to cents. It is never stored.
func (p Product) OriginalPrice() float64 {
	if !p.HasDiscount() {
		return p.Price
	}
	price := decimal.NewFromFloat(p.Price)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p.DiscountPercentage).Div(decimal.NewFromInt(100)))
	return price.Div(factor).Round(2).InexactFloat64()
}

// StockLevel classifies stock for the badge shown next to a product
func (p Product) StockLevel() string {
	switch {
	case p.Stock > 50:
		return StockHigh
	case p.Stock > 20:
		return StockMedium
	default:
		return StockLow
	}
}

// ProductPage is one page of products together with the overall total
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// CreateProductData is the payload of a create request
type CreateProductData struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Price              float64 `json:"price"`
	Category           string  `json:"category"`
	Brand              string  `json:"brand"`
	Stock              int     `json:"stock"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// UpdateProductData is a partial update; nil fields are not sent
type UpdateProductData struct {
	Title              *string  `json:"title,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Brand              *string  `json:"brand,omitempty"`
	Stock              *int     `json:"stock,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
}

// DeleteResult is the acknowledgment of a delete request
type DeleteResult struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	IsDeleted bool      `json:"isDeleted"`
	DeletedOn time.Time `json:"deletedOn"`
}
