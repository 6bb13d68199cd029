// Package models defines the client-side records of the personal-collections
// layer: collections and their items, favorite products, saved stores,
// wishlist privacy settings, search history and display preferences.
package models

import "time"

// Collection is a user-defined named group of saved products (a wishlist).
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PendingSync marks a guest-created collection that has not yet been
	// confirmed by the remote store.
	PendingSync bool `json:"pending_sync,omitempty"`
}

// CollectionInput carries the editable fields of a collection.
type CollectionInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Icon        string `json:"icon,omitempty" validate:"max=16"`
	Description string `json:"description,omitempty" validate:"max=500"`
	IsPublic    bool   `json:"is_public"`
}

// CollectionItem references a product from a collection. A product appears
// at most once per collection.
type CollectionItem struct {
	CollectionID string          `json:"collection_id"`
	ProductID    string          `json:"product_id"`
	AddedAt      time.Time       `json:"added_at"`
	Note         string          `json:"note,omitempty"`
	Product      *ProductSummary `json:"product,omitempty"`

	PendingSync bool `json:"pending_sync,omitempty"`
}
