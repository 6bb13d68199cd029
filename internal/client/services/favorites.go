package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/normalize"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/validate"
)

// FavoritesService manages favorite products.
type FavoritesService interface {
	List(ctx context.Context) []models.FavoriteProduct
	IsFavorite(ctx context.Context, productID string) bool
	Add(ctx context.Context, p models.ProductSummary) error
	Remove(ctx context.Context, productID string) error
	Toggle(ctx context.Context, p models.ProductSummary) (bool, error)
}

type favoritesService struct {
	d Deps
}

func NewFavoritesService(d Deps) FavoritesService {
	return &favoritesService{d: d.withDefaults()}
}

func favoriteKey(f models.FavoriteProduct) string { return f.ID }

// List returns the favorites. Entries the backend sent without a product id
// are dropped.
func (s *favoritesService) List(ctx context.Context) []models.FavoriteProduct {
	if !s.d.authenticated() {
		s.d.mu.Lock()
		defer s.d.mu.Unlock()
		return loadList[models.FavoriteProduct](ctx, s.d, storage.KeyFavorites)
	}

	raw := fetch(ctx, s.d, cacheFavorites, func(ctx context.Context) (any, error) {
		return s.d.Client.ListFavorites(ctx)
	})
	res := normalize.MapFavoritesResponse(raw)

	out := res.Items[:0]
	for _, f := range res.Items {
		if !normalize.ValidateFavoriteProduct(f) {
			s.d.Logger.Debug(ctx, "dropping invalid favorite", "name", f.Name)
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s *favoritesService) IsFavorite(ctx context.Context, productID string) bool {
	return indexBy(s.List(ctx), favoriteKey).has(productID)
}

func (s *favoritesService) Add(ctx context.Context, p models.ProductSummary) error {
	fav := models.FavoriteFromProduct(p, s.d.Now())
	if err := validate.Struct(fav); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	if s.d.authenticated() {
		if err := s.d.Client.AddFavorite(ctx, fav); err != nil {
			return fmt.Errorf("add favorite: %w", err)
		}
		s.d.Cache.Invalidate(cacheFavorites)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.FavoriteProduct](ctx, s.d, storage.KeyFavorites)
	if indexBy(list, favoriteKey).has(fav.ID) {
		return nil
	}
	list = append([]models.FavoriteProduct{fav}, list...)
	saveList(ctx, s.d, storage.KeyFavorites, list)
	return nil
}

func (s *favoritesService) Remove(ctx context.Context, productID string) error {
	if s.d.authenticated() {
		if err := s.d.Client.RemoveFavorite(ctx, productID); err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
		s.d.Cache.Invalidate(cacheFavorites)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.FavoriteProduct](ctx, s.d, storage.KeyFavorites)
	i := indexOf(list, productID, favoriteKey)
	if i < 0 {
		return nil
	}
	list = append(list[:i], list[i+1:]...)
	saveList(ctx, s.d, storage.KeyFavorites, list)
	return nil
}

func (s *favoritesService) Toggle(ctx context.Context, p models.ProductSummary) (bool, error) {
	if s.IsFavorite(ctx, p.ID) {
		if err := s.Remove(ctx, p.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}
