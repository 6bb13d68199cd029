package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Favorite is a product a user marked as favorite. Product display fields are
// denormalized from the storefront catalog at the time of saving.
type Favorite struct {
	UserID    string
	ProductID string
	Name      string
	Brand     string
	Image     string
	Price     decimal.NullDecimal
	Currency  string
	AddedAt   time.Time
}

type Collection struct {
	ID          string
	UserID      string
	Name        string
	Icon        string
	Description string
	IsPublic    bool
	ItemCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CollectionItem struct {
	CollectionID string
	ProductID    string
	Note         string
	AddedAt      time.Time
}

type SavedStore struct {
	UserID  string
	StoreID string
	Name    string
	Logo    string
	SavedAt time.Time
}

// WishlistSettings is the per-user visibility flag and share token. The token
// is issued once and kept when the wishlist goes private.
type WishlistSettings struct {
	UserID     string
	IsPublic   bool
	ShareToken string
	UpdatedAt  time.Time
}
