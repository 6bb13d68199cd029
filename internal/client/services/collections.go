package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/normalize"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/validate"
)

// CollectionsService manages collections and the products they hold.
//
// Guests may create collections; they get local ids and are pushed to the
// account by the GuestMigrator after sign-in.
type CollectionsService interface {
	List(ctx context.Context) []models.Collection
	Get(ctx context.Context, id string) (models.Collection, bool)
	Create(ctx context.Context, in models.CollectionInput) (models.Collection, error)
	Update(ctx context.Context, id string, in models.CollectionInput) error
	Delete(ctx context.Context, id string) error

	Items(ctx context.Context, collectionID string) []models.CollectionItem
	Contains(ctx context.Context, collectionID, productID string) bool
	AddItem(ctx context.Context, collectionID string, p models.ProductSummary, note string) error
	RemoveItem(ctx context.Context, collectionID, productID string) error
	ToggleItem(ctx context.Context, collectionID string, p models.ProductSummary) (bool, error)
}

type collectionsService struct {
	d Deps
}

func NewCollectionsService(d Deps) CollectionsService {
	return &collectionsService{d: d.withDefaults()}
}

func collectionKey(c models.Collection) string { return c.ID }
func itemKey(it models.CollectionItem) string  { return it.ProductID }

func (s *collectionsService) List(ctx context.Context) []models.Collection {
	if !s.d.authenticated() {
		s.d.mu.Lock()
		defer s.d.mu.Unlock()
		return loadList[models.Collection](ctx, s.d, storage.KeyCollections)
	}

	raw := fetch(ctx, s.d, cacheCollections, func(ctx context.Context) (any, error) {
		return s.d.Client.ListCollections(ctx)
	})
	return normalize.MapCollectionsResponse(raw).Collections
}

func (s *collectionsService) Get(ctx context.Context, id string) (models.Collection, bool) {
	list := s.List(ctx)
	if i := indexOf(list, id, collectionKey); i >= 0 {
		return list[i], true
	}
	return models.Collection{}, false
}

func (s *collectionsService) Create(ctx context.Context, in models.CollectionInput) (models.Collection, error) {
	if err := validate.Struct(in); err != nil {
		return models.Collection{}, fmt.Errorf("create collection: %w", err)
	}

	if s.d.authenticated() {
		raw, err := s.d.Client.CreateCollection(ctx, "", in)
		if err != nil {
			return models.Collection{}, fmt.Errorf("create collection: %w", err)
		}
		s.d.Cache.Invalidate(cacheCollections)
		c := normalize.MapCollection(raw)
		if c.Name == "" {
			c.Name = in.Name
		}
		return c, nil
	}

	now := s.d.Now()
	c := models.Collection{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Icon:        in.Icon,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.Collection](ctx, s.d, storage.KeyCollections)
	list = append(list, c)
	saveList(ctx, s.d, storage.KeyCollections, list)
	return c, nil
}

func (s *collectionsService) Update(ctx context.Context, id string, in models.CollectionInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("update collection: %w", err)
	}

	if s.d.authenticated() {
		if err := s.d.Client.UpdateCollection(ctx, id, in); err != nil {
			return fmt.Errorf("update collection: %w", err)
		}
		s.d.Cache.Invalidate(cacheCollections)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.Collection](ctx, s.d, storage.KeyCollections)
	i := indexOf(list, id, collectionKey)
	if i < 0 {
		return fmt.Errorf("update collection: %w", common.ErrorNotFound)
	}
	c := &list[i]
	c.Name, c.Icon, c.Description, c.IsPublic = in.Name, in.Icon, in.Description, in.IsPublic
	c.UpdatedAt = s.d.Now()
	saveList(ctx, s.d, storage.KeyCollections, list)
	return nil
}

func (s *collectionsService) Delete(ctx context.Context, id string) error {
	if s.d.authenticated() {
		if err := s.d.Client.DeleteCollection(ctx, id); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		s.d.Cache.Invalidate(cacheCollections, cacheItems(id))
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.Collection](ctx, s.d, storage.KeyCollections)
	i := indexOf(list, id, collectionKey)
	if i < 0 {
		return nil
	}
	list = append(list[:i], list[i+1:]...)
	saveList(ctx, s.d, storage.KeyCollections, list)
	s.d.Store.Remove(ctx, storage.CollectionItemsKey(id))
	return nil
}

func (s *collectionsService) Items(ctx context.Context, collectionID string) []models.CollectionItem {
	if !s.d.authenticated() {
		s.d.mu.Lock()
		defer s.d.mu.Unlock()
		return loadList[models.CollectionItem](ctx, s.d, storage.CollectionItemsKey(collectionID))
	}

	raw := fetch(ctx, s.d, cacheItems(collectionID), func(ctx context.Context) (any, error) {
		return s.d.Client.ListCollectionItems(ctx, collectionID)
	})
	items := normalize.MapCollectionItemsResponse(raw).Items
	for i := range items {
		if items[i].CollectionID == "" {
			items[i].CollectionID = collectionID
		}
	}
	return items
}

func (s *collectionsService) Contains(ctx context.Context, collectionID, productID string) bool {
	return indexBy(s.Items(ctx, collectionID), itemKey).has(productID)
}

func (s *collectionsService) AddItem(ctx context.Context, collectionID string, p models.ProductSummary, note string) error {
	if p.ID == "" {
		return fmt.Errorf("add item: %w", common.ErrorValidation)
	}

	if s.d.authenticated() {
		if err := s.d.Client.AddCollectionItem(ctx, collectionID, p.ID, note); err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		s.d.Cache.Invalidate(cacheItems(collectionID), cacheCollections)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	cols := loadList[models.Collection](ctx, s.d, storage.KeyCollections)
	ci := indexOf(cols, collectionID, collectionKey)
	if ci < 0 {
		return fmt.Errorf("add item: %w", common.ErrorNotFound)
	}

	key := storage.CollectionItemsKey(collectionID)
	items := loadList[models.CollectionItem](ctx, s.d, key)
	if indexBy(items, itemKey).has(p.ID) {
		return nil
	}
	prod := p
	items = append(items, models.CollectionItem{
		CollectionID: collectionID,
		ProductID:    p.ID,
		AddedAt:      s.d.Now(),
		Note:         note,
		Product:      &prod,
	})
	saveList(ctx, s.d, key, items)

	cols[ci].ItemCount = len(items)
	cols[ci].UpdatedAt = s.d.Now()
	saveList(ctx, s.d, storage.KeyCollections, cols)
	return nil
}

func (s *collectionsService) RemoveItem(ctx context.Context, collectionID, productID string) error {
	if s.d.authenticated() {
		if err := s.d.Client.RemoveCollectionItem(ctx, collectionID, productID); err != nil {
			return fmt.Errorf("remove item: %w", err)
		}
		s.d.Cache.Invalidate(cacheItems(collectionID), cacheCollections)
		return nil
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	key := storage.CollectionItemsKey(collectionID)
	items := loadList[models.CollectionItem](ctx, s.d, key)
	i := indexOf(items, productID, itemKey)
	if i < 0 {
		return nil
	}
	items = append(items[:i], items[i+1:]...)
	saveList(ctx, s.d, key, items)

	cols := loadList[models.Collection](ctx, s.d, storage.KeyCollections)
	if ci := indexOf(cols, collectionID, collectionKey); ci >= 0 {
		cols[ci].ItemCount = len(items)
		cols[ci].UpdatedAt = s.d.Now()
		saveList(ctx, s.d, storage.KeyCollections, cols)
	}
	return nil
}

func (s *collectionsService) ToggleItem(ctx context.Context, collectionID string, p models.ProductSummary) (bool, error) {
	if s.Contains(ctx, collectionID, p.ID) {
		if err := s.RemoveItem(ctx, collectionID, p.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.AddItem(ctx, collectionID, p, ""); err != nil {
		return false, err
	}
	return true, nil
}
