package models

import "time"

// Store is the minimal storefront description a shopper can bookmark.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// SavedStore is a bookmarked store with denormalized display fields.
type SavedStore struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Logo    string    `json:"logo,omitempty"`
	SavedAt time.Time `json:"saved_at"`

	PendingSync bool `json:"pending_sync,omitempty"`
}

// Store returns the bookmarked store.
func (s SavedStore) Store() Store {
	return Store{ID: s.ID, Name: s.Name, Logo: s.Logo}
}
