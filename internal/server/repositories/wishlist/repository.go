// Package wishlist persists the personal collections of backend users:
// favorites, collections with their items, saved stores and the wishlist
// privacy settings. Creates are idempotent: repeating one leaves the first
// record in place.
package wishlist

import (
	"context"

	"github.com/dmitrijs2005/wishsync/internal/server/models"
)

type Repository interface {
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, f *models.Favorite) error
	RemoveFavorite(ctx context.Context, userID, productID string) error

	ListCollections(ctx context.Context, userID string) ([]models.Collection, error)
	GetCollection(ctx context.Context, userID, id string) (*models.Collection, error)
	CreateCollection(ctx context.Context, c *models.Collection) (bool, error)
	UpdateCollection(ctx context.Context, c *models.Collection) error
	DeleteCollection(ctx context.Context, userID, id string) error

	ListItems(ctx context.Context, collectionID string) ([]models.CollectionItem, error)
	AddItem(ctx context.Context, it *models.CollectionItem) error
	RemoveItem(ctx context.Context, collectionID, productID string) error

	ListSavedStores(ctx context.Context, userID string) ([]models.SavedStore, error)
	SaveStore(ctx context.Context, s *models.SavedStore) error
	RemoveSavedStore(ctx context.Context, userID, storeID string) error

	GetSettings(ctx context.Context, userID string) (*models.WishlistSettings, error)
	SetPublic(ctx context.Context, userID string, public bool) (*models.WishlistSettings, error)
	EnsureShareToken(ctx context.Context, userID, token string) (*models.WishlistSettings, error)
	FindByShareToken(ctx context.Context, token string) (*models.WishlistSettings, error)
}
