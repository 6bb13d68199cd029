package models

import "time"

// WishlistSettings holds the per-user visibility flag and the share link.
// The link is created lazily and is never regenerated once it exists.
type WishlistSettings struct {
	IsPublic   bool   `json:"is_public"`
	ShareToken string `json:"share_token,omitempty"`
	ShareURL   string `json:"share_url,omitempty"`
}

// HasShareLink reports whether a share token was already issued.
func (s WishlistSettings) HasShareLink() bool {
	return s.ShareToken != ""
}

// VisibleShareURL returns the link to display. A private wishlist keeps its
// token, but the link is hidden.
func (s WishlistSettings) VisibleShareURL() string {
	if !s.IsPublic {
		return ""
	}
	return s.ShareURL
}

// SearchEntry is one remembered search query.
type SearchEntry struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searched_at"`
}

// Preferences are display preferences kept locally in every session state.
type Preferences struct {
	Language string `json:"language" validate:"required,bcp47_language_tag"`
	Currency string `json:"currency" validate:"required,iso4217"`
}
