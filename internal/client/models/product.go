package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSummary holds the denormalized product fields needed to render a
// list row without another round trip.
type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand,omitempty"`
	Image    string          `json:"image,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
}

// FavoriteProduct is a product marked as favorite by the shopper.
type FavoriteProduct struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand,omitempty"`
	Image    string          `json:"image,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	AddedAt  time.Time       `json:"added_at"`

	PendingSync bool `json:"pending_sync,omitempty"`
}

// Summary returns the product fields of the favorite.
func (f FavoriteProduct) Summary() ProductSummary {
	return ProductSummary{ID: f.ID, Name: f.Name, Brand: f.Brand, Image: f.Image, Price: f.Price, Currency: f.Currency}
}

// FavoriteFromProduct builds a favorite from product display fields.
func FavoriteFromProduct(p ProductSummary, addedAt time.Time) FavoriteProduct {
	return FavoriteProduct{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Image:    p.Image,
		Price:    p.Price,
		Currency: p.Currency,
		AddedAt:  addedAt,
	}
}
