package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/normalize"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
)

// SavedStoresService manages the stores bookmarked by the shopper.
type SavedStoresService interface {
	List(ctx context.Context) []models.SavedStore
	IsSaved(ctx context.Context, storeID string) bool
	Add(ctx context.Context, s models.Store) error
	Remove(ctx context.Context, storeID string) error
	// Toggle saves s when absent and removes it otherwise. It reports whether
	// the store is saved afterwards.
	Toggle(ctx context.Context, s models.Store) (bool, error)
}

type savedStoresService struct {
	d Deps
}

func NewSavedStoresService(d Deps) SavedStoresService {
	return &savedStoresService{d: d.withDefaults()}
}

func savedStoreKey(s models.SavedStore) string { return s.ID }

func (s *savedStoresService) List(ctx context.Context) []models.SavedStore {
	if !s.d.authenticated() {
		s.d.mu.Lock()
		defer s.d.mu.Unlock()
		return loadList[models.SavedStore](ctx, s.d, storage.KeySavedStores)
	}

	raw := fetch(ctx, s.d, cacheSavedStores, func(ctx context.Context) (any, error) {
		return s.d.Client.ListSavedStores(ctx)
	})
	return normalize.MapSavedStoresResponse(raw)
}

func (s *savedStoresService) IsSaved(ctx context.Context, storeID string) bool {
	return indexBy(s.List(ctx), savedStoreKey).has(storeID)
}

func (s *savedStoresService) Add(ctx context.Context, st models.Store) error {
	if st.ID == "" {
		return fmt.Errorf("save store: empty id")
	}

	if s.d.authenticated() {
		if err := s.d.Client.SaveStore(ctx, st); err != nil {
			return fmt.Errorf("save store: %w", err)
		}
		s.d.Cache.Invalidate(cacheSavedStores)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.SavedStore](ctx, s.d, storage.KeySavedStores)
	if indexBy(list, savedStoreKey).has(st.ID) {
		return nil
	}
	saved := models.SavedStore{ID: st.ID, Name: st.Name, Logo: st.Logo, SavedAt: s.d.Now()}
	list = append([]models.SavedStore{saved}, list...)
	saveList(ctx, s.d, storage.KeySavedStores, list)
	return nil
}

func (s *savedStoresService) Remove(ctx context.Context, storeID string) error {
	if s.d.authenticated() {
		if err := s.d.Client.RemoveSavedStore(ctx, storeID); err != nil {
			return fmt.Errorf("remove store: %w", err)
		}
		s.d.Cache.Invalidate(cacheSavedStores)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.SavedStore](ctx, s.d, storage.KeySavedStores)
	i := indexOf(list, storeID, savedStoreKey)
	if i < 0 {
		return nil
	}
	list = append(list[:i], list[i+1:]...)
	saveList(ctx, s.d, storage.KeySavedStores, list)
	return nil
}

func (s *savedStoresService) Toggle(ctx context.Context, st models.Store) (bool, error) {
	if s.IsSaved(ctx, st.ID) {
		if err := s.Remove(ctx, st.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, st); err != nil {
		return false, err
	}
	return true, nil
}
