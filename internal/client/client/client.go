package client

import (
	"context"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
)

// TokenSource supplies the bearer token and the user id of the current
// session. Both are empty for guests.
type TokenSource interface {
	Token() string
	UserID() string
}

type Client interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Ping(ctx context.Context) error

	ListFavorites(ctx context.Context) (any, error)
	AddFavorite(ctx context.Context, p models.FavoriteProduct) error
	RemoveFavorite(ctx context.Context, productID string) error

	ListCollections(ctx context.Context) (any, error)
	CreateCollection(ctx context.Context, id string, in models.CollectionInput) (any, error)
	UpdateCollection(ctx context.Context, id string, in models.CollectionInput) error
	DeleteCollection(ctx context.Context, id string) error

	ListCollectionItems(ctx context.Context, collectionID string) (any, error)
	AddCollectionItem(ctx context.Context, collectionID, productID, note string) error
	RemoveCollectionItem(ctx context.Context, collectionID, productID string) error

	ListSavedStores(ctx context.Context) (any, error)
	SaveStore(ctx context.Context, s models.Store) error
	RemoveSavedStore(ctx context.Context, storeID string) error

	GetWishlistSettings(ctx context.Context) (any, error)
	UpdateWishlistSettings(ctx context.Context, isPublic bool) (any, error)
	GenerateShareLink(ctx context.Context) (any, error)
}
