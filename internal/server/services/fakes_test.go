package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/dbx"
	"github.com/dmitrijs2005/wishsync/internal/server/config"
	"github.com/dmitrijs2005/wishsync/internal/server/models"
	usersrepo "github.com/dmitrijs2005/wishsync/internal/server/repositories/users"
	"github.com/dmitrijs2005/wishsync/internal/server/repositories/wishlist"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		ShareBaseURL:                "https://shop.example/shared/",
	}
}

// ---- users ----

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

// ---- wishlist ----

type memWishlistRepo struct {
	favorites   map[string][]models.Favorite
	collections map[string]models.Collection
	items       map[string][]models.CollectionItem
	stores      map[string][]models.SavedStore
	settings    map[string]models.WishlistSettings

	err error
}

func newMemWishlistRepo() *memWishlistRepo {
	return &memWishlistRepo{
		favorites:   map[string][]models.Favorite{},
		collections: map[string]models.Collection{},
		items:       map[string][]models.CollectionItem{},
		stores:      map[string][]models.SavedStore{},
		settings:    map[string]models.WishlistSettings{},
	}
}

func (r *memWishlistRepo) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]models.Favorite{}, r.favorites[userID]...), nil
}

func (r *memWishlistRepo) AddFavorite(ctx context.Context, f *models.Favorite) error {
	if r.err != nil {
		return r.err
	}
	for _, x := range r.favorites[f.UserID] {
		if x.ProductID == f.ProductID {
			return nil
		}
	}
	r.favorites[f.UserID] = append(r.favorites[f.UserID], *f)
	return nil
}

func (r *memWishlistRepo) RemoveFavorite(ctx context.Context, userID, productID string) error {
	out := r.favorites[userID][:0]
	for _, x := range r.favorites[userID] {
		if x.ProductID != productID {
			out = append(out, x)
		}
	}
	r.favorites[userID] = out
	return r.err
}

func (r *memWishlistRepo) ListCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Collection{}
	for _, c := range r.collections {
		if c.UserID == userID {
			c.ItemCount = len(r.items[c.ID])
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memWishlistRepo) GetCollection(ctx context.Context, userID, id string) (*models.Collection, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.collections[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c.ItemCount = len(r.items[id])
	return &c, nil
}

func (r *memWishlistRepo) CreateCollection(ctx context.Context, c *models.Collection) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.collections[c.ID]; ok {
		return false, nil
	}
	r.collections[c.ID] = *c
	return true, nil
}

func (r *memWishlistRepo) UpdateCollection(ctx context.Context, c *models.Collection) error {
	cur, ok := r.collections[c.ID]
	if !ok || cur.UserID != c.UserID {
		return common.ErrorNotFound
	}
	r.collections[c.ID] = *c
	return nil
}

func (r *memWishlistRepo) DeleteCollection(ctx context.Context, userID, id string) error {
	if c, ok := r.collections[id]; ok && c.UserID == userID {
		delete(r.collections, id)
		delete(r.items, id)
	}
	return nil
}

func (r *memWishlistRepo) ListItems(ctx context.Context, collectionID string) ([]models.CollectionItem, error) {
	return append([]models.CollectionItem{}, r.items[collectionID]...), nil
}

func (r *memWishlistRepo) AddItem(ctx context.Context, it *models.CollectionItem) error {
	for _, x := range r.items[it.CollectionID] {
		if x.ProductID == it.ProductID {
			return nil
		}
	}
	r.items[it.CollectionID] = append(r.items[it.CollectionID], *it)
	return nil
}

func (r *memWishlistRepo) RemoveItem(ctx context.Context, collectionID, productID string) error {
	out := r.items[collectionID][:0]
	for _, x := range r.items[collectionID] {
		if x.ProductID != productID {
			out = append(out, x)
		}
	}
	r.items[collectionID] = out
	return nil
}

func (r *memWishlistRepo) ListSavedStores(ctx context.Context, userID string) ([]models.SavedStore, error) {
	return append([]models.SavedStore{}, r.stores[userID]...), nil
}

func (r *memWishlistRepo) SaveStore(ctx context.Context, s *models.SavedStore) error {
	for _, x := range r.stores[s.UserID] {
		if x.StoreID == s.StoreID {
			return nil
		}
	}
	r.stores[s.UserID] = append(r.stores[s.UserID], *s)
	return nil
}

func (r *memWishlistRepo) RemoveSavedStore(ctx context.Context, userID, storeID string) error {
	out := r.stores[userID][:0]
	for _, x := range r.stores[userID] {
		if x.StoreID != storeID {
			out = append(out, x)
		}
	}
	r.stores[userID] = out
	return nil
}

func (r *memWishlistRepo) GetSettings(ctx context.Context, userID string) (*models.WishlistSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.settings[userID]
	if !ok {
		s = models.WishlistSettings{UserID: userID}
	}
	return &s, nil
}

func (r *memWishlistRepo) SetPublic(ctx context.Context, userID string, public bool) (*models.WishlistSettings, error) {
	s := r.settings[userID]
	s.UserID = userID
	s.IsPublic = public
	r.settings[userID] = s
	return &s, nil
}

func (r *memWishlistRepo) EnsureShareToken(ctx context.Context, userID, token string) (*models.WishlistSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	s := r.settings[userID]
	s.UserID = userID
	if s.ShareToken == "" {
		s.ShareToken = token
	}
	r.settings[userID] = s
	return &s, nil
}

func (r *memWishlistRepo) FindByShareToken(ctx context.Context, token string) (*models.WishlistSettings, error) {
	for _, s := range r.settings {
		if s.ShareToken == token {
			return &s, nil
		}
	}
	return nil, common.ErrorNotFound
}

// ---- manager ----

type fakeRepoManager struct {
	u *fakeUsersRepo
	w *memWishlistRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Wishlist(db dbx.DBTX) wishlist.Repository     { return m.w }

// sqlmockExpect queues the transaction boundaries WithTx issues.
type sqlmockExpect struct {
	mock sqlmock.Sqlmock
}

func (e sqlmockExpect) tx(n int) {
	for i := 0; i < n; i++ {
		e.mock.ExpectBegin()
		e.mock.ExpectCommit()
	}
}

func (e sqlmockExpect) txRollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func (e sqlmockExpect) done(t *testing.T) {
	t.Helper()
	if err := e.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
