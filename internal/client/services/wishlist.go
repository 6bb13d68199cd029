package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/normalize"
)

// WishlistService manages the public/private flag of the wishlist and its
// share link. It has no guest mode.
//
// Going public creates a share link when none exists yet. Going private keeps
// the token; models.WishlistSettings.VisibleShareURL hides it.
type WishlistService interface {
	Settings(ctx context.Context) (models.WishlistSettings, error)
	SetPublic(ctx context.Context, public bool) (models.WishlistSettings, error)
	GenerateShareLink(ctx context.Context) (models.WishlistSettings, error)
}

type wishlistService struct {
	d Deps
}

func NewWishlistService(d Deps) WishlistService {
	return &wishlistService{d: d.withDefaults()}
}

// Settings returns the current settings. Read failures yield zero settings.
func (s *wishlistService) Settings(ctx context.Context) (models.WishlistSettings, error) {
	if !s.d.authenticated() {
		return models.WishlistSettings{}, ErrAuthRequired
	}
	raw := fetch(ctx, s.d, cacheSettings, func(ctx context.Context) (any, error) {
		return s.d.Client.GetWishlistSettings(ctx)
	})
	return normalize.MapWishlistSettingsResponse(raw), nil
}

func (s *wishlistService) SetPublic(ctx context.Context, public bool) (models.WishlistSettings, error) {
	if !s.d.authenticated() {
		return models.WishlistSettings{}, ErrAuthRequired
	}

	raw, err := s.d.Client.UpdateWishlistSettings(ctx, public)
	if err != nil {
		return models.WishlistSettings{}, fmt.Errorf("update wishlist settings: %w", err)
	}
	s.d.Cache.Invalidate(cacheSettings)

	settings := normalize.MapWishlistSettingsResponse(raw)
	settings.IsPublic = public
	if !public || settings.HasShareLink() {
		return settings, nil
	}

	// the update response may omit the link; ask before creating one
	if cur, _ := s.Settings(ctx); cur.HasShareLink() {
		settings.ShareToken, settings.ShareURL = cur.ShareToken, cur.ShareURL
		return settings, nil
	}
	return s.GenerateShareLink(ctx)
}

// GenerateShareLink asks the backend for the share link and replaces the
// link of the single settings object with the result. The visibility flag
// is left as it was.
func (s *wishlistService) GenerateShareLink(ctx context.Context) (models.WishlistSettings, error) {
	if !s.d.authenticated() {
		return models.WishlistSettings{}, ErrAuthRequired
	}

	cur, _ := s.Settings(ctx)

	raw, err := s.d.Client.GenerateShareLink(ctx)
	if err != nil {
		return cur, fmt.Errorf("generate share link: %w", err)
	}
	s.d.Cache.Invalidate(cacheSettings)

	link := normalize.MapWishlistSettingsResponse(raw)
	if link.ShareToken != "" {
		cur.ShareToken = link.ShareToken
	}
	if link.ShareURL != "" {
		cur.ShareURL = link.ShareURL
	}
	return cur, nil
}
