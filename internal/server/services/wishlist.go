package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/dbx"
	"github.com/dmitrijs2005/wishsync/internal/server/config"
	"github.com/dmitrijs2005/wishsync/internal/server/models"
	"github.com/dmitrijs2005/wishsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wishsync/internal/server/repositories/wishlist"
)

// SharedWishlist is the public view of a wishlist reached through its share
// token.
type SharedWishlist struct {
	OwnerID     string
	Favorites   []models.Favorite
	Collections []models.Collection
}

// WishlistService owns favorites, collections, saved stores and wishlist
// privacy for authenticated users. Every call is scoped to the user id taken
// from the access token.
type WishlistService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	shareBaseURL string
	newID        func() string
}

func NewWishlistService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *WishlistService {
	return &WishlistService{
		db:           db,
		repomanager:  m,
		shareBaseURL: strings.TrimRight(cfg.ShareBaseURL, "/"),
		newID:        uuid.NewString,
	}
}

func (s *WishlistService) repo() wishlist.Repository {
	return s.repomanager.Wishlist(s.db)
}

// ---- favorites ----

func (s *WishlistService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	return s.repo().ListFavorites(ctx, userID)
}

// AddFavorite stores f for userID. Adding a product twice keeps the first
// record.
func (s *WishlistService) AddFavorite(ctx context.Context, userID string, f *models.Favorite) error {
	if strings.TrimSpace(f.ProductID) == "" {
		return common.ErrorValidation
	}
	f.UserID = userID
	return s.repo().AddFavorite(ctx, f)
}

func (s *WishlistService) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return s.repo().RemoveFavorite(ctx, userID, productID)
}

// ---- collections ----

func (s *WishlistService) ListCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	return s.repo().ListCollections(ctx, userID)
}

func (s *WishlistService) GetCollection(ctx context.Context, userID, id string) (*models.Collection, error) {
	return s.repo().GetCollection(ctx, userID, id)
}

// CreateCollection inserts c, generating an id when none is given, and
// returns the stored row. Re-creating one of the caller's collections returns
// it unchanged; an id held by another user yields common.ErrorAlreadyExists.
func (s *WishlistService) CreateCollection(ctx context.Context, userID string, c *models.Collection) (*models.Collection, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, common.ErrorValidation
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	c.UserID = userID

	var out *models.Collection
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Wishlist(tx)

		if _, err := repo.CreateCollection(ctx, c); err != nil {
			return err
		}

		stored, err := repo.GetCollection(ctx, userID, c.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorAlreadyExists
			}
			return err
		}
		out = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *WishlistService) UpdateCollection(ctx context.Context, userID string, c *models.Collection) (*models.Collection, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, common.ErrorValidation
	}
	c.UserID = userID

	repo := s.repo()
	if err := repo.UpdateCollection(ctx, c); err != nil {
		return nil, err
	}
	return repo.GetCollection(ctx, userID, c.ID)
}

func (s *WishlistService) DeleteCollection(ctx context.Context, userID, id string) error {
	return s.repo().DeleteCollection(ctx, userID, id)
}

// ---- collection items ----

func (s *WishlistService) ListItems(ctx context.Context, userID, collectionID string) ([]models.CollectionItem, error) {
	repo := s.repo()
	if _, err := repo.GetCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}
	return repo.ListItems(ctx, collectionID)
}

func (s *WishlistService) AddItem(ctx context.Context, userID string, it *models.CollectionItem) error {
	if strings.TrimSpace(it.ProductID) == "" {
		return common.ErrorValidation
	}
	return s.withOwnedCollection(ctx, userID, it.CollectionID, func(ctx context.Context, repo wishlist.Repository) error {
		return repo.AddItem(ctx, it)
	})
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID, collectionID, productID string) error {
	return s.withOwnedCollection(ctx, userID, collectionID, func(ctx context.Context, repo wishlist.Repository) error {
		return repo.RemoveItem(ctx, collectionID, productID)
	})
}

// withOwnedCollection runs fn in a transaction after checking that the
// collection belongs to userID.
func (s *WishlistService) withOwnedCollection(ctx context.Context, userID, collectionID string, fn func(context.Context, wishlist.Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Wishlist(tx)
		if _, err := repo.GetCollection(ctx, userID, collectionID); err != nil {
			return err
		}
		return fn(ctx, repo)
	})
}

// ---- saved stores ----

func (s *WishlistService) ListSavedStores(ctx context.Context, userID string) ([]models.SavedStore, error) {
	return s.repo().ListSavedStores(ctx, userID)
}

func (s *WishlistService) SaveStore(ctx context.Context, userID string, st *models.SavedStore) error {
	if strings.TrimSpace(st.StoreID) == "" {
		return common.ErrorValidation
	}
	st.UserID = userID
	return s.repo().SaveStore(ctx, st)
}

func (s *WishlistService) RemoveSavedStore(ctx context.Context, userID, storeID string) error {
	return s.repo().RemoveSavedStore(ctx, userID, storeID)
}

// ---- privacy and sharing ----

func (s *WishlistService) Settings(ctx context.Context, userID string) (*models.WishlistSettings, error) {
	return s.repo().GetSettings(ctx, userID)
}

func (s *WishlistService) SetPublic(ctx context.Context, userID string, public bool) (*models.WishlistSettings, error) {
	return s.repo().SetPublic(ctx, userID, public)
}

// GenerateShareLink returns the user's share token, creating it on first
// use. Later calls return the same token.
func (s *WishlistService) GenerateShareLink(ctx context.Context, userID string) (*models.WishlistSettings, error) {
	st, err := s.repo().EnsureShareToken(ctx, userID, s.newID())
	if err != nil {
		return nil, fmt.Errorf("error generating share link: %w", err)
	}
	return st, nil
}

// ShareURL builds the public link for token. It is empty when token is.
func (s *WishlistService) ShareURL(token string) string {
	if token == "" {
		return ""
	}
	return s.shareBaseURL + "/" + token
}

// Shared resolves a share token to the owner's public wishlist. Tokens of
// private wishlists are reported as not found.
func (s *WishlistService) Shared(ctx context.Context, token string) (*SharedWishlist, error) {
	repo := s.repo()

	st, err := repo.FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !st.IsPublic {
		return nil, common.ErrorNotFound
	}

	favs, err := repo.ListFavorites(ctx, st.UserID)
	if err != nil {
		return nil, err
	}
	all, err := repo.ListCollections(ctx, st.UserID)
	if err != nil {
		return nil, err
	}

	cols := make([]models.Collection, 0, len(all))
	for _, c := range all {
		if c.IsPublic {
			cols = append(cols, c)
		}
	}

	return &SharedWishlist{OwnerID: st.UserID, Favorites: favs, Collections: cols}, nil
}
