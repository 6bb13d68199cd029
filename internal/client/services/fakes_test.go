package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wishsync/internal/client/client"
	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/query"
	"github.com/dmitrijs2005/wishsync/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/wishsync/internal/client/session"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
)

var (
	errBoom   = errors.New("boom")
	fixedTime = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
)

// ---- helpers ----

func newStore(t *testing.T) *storage.Adapter {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "wishsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.New(keyvalue.NewSQLiteRepository(db))
}

func newDeps(t *testing.T, c client.Client, s Session) Deps {
	t.Helper()
	return Deps{
		Store:   newStore(t),
		Client:  c,
		Session: s,
		Cache:   query.New(time.Minute, query.WithTerminal(client.IsTerminal)),
		Now:     func() time.Time { return fixedTime },
	}.withDefaults()
}

// ---- fake session ----

type fakeSession struct {
	mu   sync.Mutex
	auth bool
}

func (f *fakeSession) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func (f *fakeSession) SignIn(_ context.Context, token string) (session.Session, error) {
	if token == "" {
		return session.Session{}, errBoom
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = true
	return session.Session{State: session.Authenticated, UserID: "u1", Token: token}, nil
}

func (f *fakeSession) SignOut(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = false
}

// ---- fake client ----

// fakeClient is an in-memory backend answering in the v1 shapes.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	stores      []models.Store
	favorites   []models.FavoriteProduct
	collections map[string]models.CollectionInput
	items       map[string][]string
	settings    models.WishlistSettings

	// errs makes the named operation fail.
	errs map[string]error
	// failIDs makes mutations on the given ids fail.
	failIDs map[string]bool

	loginToken string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls:       map[string]int{},
		collections: map[string]models.CollectionInput{},
		items:       map[string][]string{},
		errs:        map[string]error{},
		failIDs:     map[string]bool{},
	}
}

func (f *fakeClient) hit(op, id string) error {
	f.calls[op]++
	if err := f.errs[op]; err != nil {
		return err
	}
	if id != "" && f.failIDs[id] {
		return errBoom
	}
	return nil
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) Register(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginToken, f.hit("Register", "")
}

func (f *fakeClient) Login(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("Login", ""); err != nil {
		return "", err
	}
	return f.loginToken, nil
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hit("Ping", "")
}

func (f *fakeClient) ListFavorites(context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListFavorites", ""); err != nil {
		return nil, err
	}
	items := []any{}
	for _, p := range f.favorites {
		items = append(items, map[string]any{
			"id":      "fav-" + p.ID,
			"product": map[string]any{"id": p.ID, "name": p.Name},
		})
	}
	// one malformed entry the service must drop
	items = append(items, map[string]any{"product": map[string]any{"name": "ghost"}})
	return map[string]any{"data": map[string]any{"items": items}}, nil
}

func (f *fakeClient) AddFavorite(_ context.Context, p models.FavoriteProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("AddFavorite", p.ID); err != nil {
		return err
	}
	for _, x := range f.favorites {
		if x.ID == p.ID {
			return nil
		}
	}
	f.favorites = append(f.favorites, p)
	return nil
}

func (f *fakeClient) RemoveFavorite(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("RemoveFavorite", id); err != nil {
		return err
	}
	out := f.favorites[:0]
	for _, x := range f.favorites {
		if x.ID != id {
			out = append(out, x)
		}
	}
	f.favorites = out
	return nil
}

func (f *fakeClient) ListCollections(context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListCollections", ""); err != nil {
		return nil, err
	}
	cols := []any{}
	for id, in := range f.collections {
		cols = append(cols, map[string]any{"id": id, "name": in.Name, "item_count": len(f.items[id])})
	}
	return map[string]any{"collections": cols}, nil
}

func (f *fakeClient) CreateCollection(_ context.Context, id string, in models.CollectionInput) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateCollection", id); err != nil {
		return nil, err
	}
	if id == "" {
		id = "remote-" + in.Name
	}
	f.collections[id] = in
	return map[string]any{"data": map[string]any{"id": id, "name": in.Name}}, nil
}

func (f *fakeClient) UpdateCollection(_ context.Context, id string, in models.CollectionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdateCollection", id); err != nil {
		return err
	}
	if _, ok := f.collections[id]; !ok {
		return client.ErrNotFound
	}
	f.collections[id] = in
	return nil
}

func (f *fakeClient) DeleteCollection(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteCollection", id); err != nil {
		return err
	}
	delete(f.collections, id)
	delete(f.items, id)
	return nil
}

func (f *fakeClient) ListCollectionItems(_ context.Context, collectionID string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListCollectionItems", ""); err != nil {
		return nil, err
	}
	items := []any{}
	for _, pid := range f.items[collectionID] {
		items = append(items, map[string]any{"product_id": pid})
	}
	return map[string]any{"items": items}, nil
}

func (f *fakeClient) AddCollectionItem(_ context.Context, collectionID, productID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("AddCollectionItem", productID); err != nil {
		return err
	}
	for _, pid := range f.items[collectionID] {
		if pid == productID {
			return nil
		}
	}
	f.items[collectionID] = append(f.items[collectionID], productID)
	return nil
}

func (f *fakeClient) RemoveCollectionItem(_ context.Context, collectionID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("RemoveCollectionItem", productID); err != nil {
		return err
	}
	out := f.items[collectionID][:0]
	for _, pid := range f.items[collectionID] {
		if pid != productID {
			out = append(out, pid)
		}
	}
	f.items[collectionID] = out
	return nil
}

func (f *fakeClient) ListSavedStores(context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListSavedStores", ""); err != nil {
		return nil, err
	}
	stores := []any{}
	for _, s := range f.stores {
		stores = append(stores, map[string]any{"id": s.ID, "name": s.Name, "saved_at": "2025-01-01T00:00:00Z"})
	}
	return map[string]any{"stores": stores}, nil
}

func (f *fakeClient) SaveStore(_ context.Context, s models.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("SaveStore", s.ID); err != nil {
		return err
	}
	for _, x := range f.stores {
		if x.ID == s.ID {
			return nil
		}
	}
	f.stores = append(f.stores, s)
	return nil
}

func (f *fakeClient) RemoveSavedStore(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("RemoveSavedStore", id); err != nil {
		return err
	}
	out := f.stores[:0]
	for _, x := range f.stores {
		if x.ID != id {
			out = append(out, x)
		}
	}
	f.stores = out
	return nil
}

func (f *fakeClient) settingsPayload() map[string]any {
	return map[string]any{
		"is_public":   f.settings.IsPublic,
		"share_token": f.settings.ShareToken,
		"share_url":   f.settings.ShareURL,
	}
}

func (f *fakeClient) GetWishlistSettings(context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetWishlistSettings", ""); err != nil {
		return nil, err
	}
	return f.settingsPayload(), nil
}

func (f *fakeClient) UpdateWishlistSettings(_ context.Context, public bool) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdateWishlistSettings", ""); err != nil {
		return nil, err
	}
	f.settings.IsPublic = public
	// the update response omits the link
	return map[string]any{"is_public": public}, nil
}

func (f *fakeClient) GenerateShareLink(context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GenerateShareLink", ""); err != nil {
		return nil, err
	}
	if f.settings.ShareToken == "" {
		f.settings.ShareToken = "tok-1"
		f.settings.ShareURL = "https://shop.example/w/tok-1"
	}
	return map[string]any{"share_token": f.settings.ShareToken, "share_url": f.settings.ShareURL}, nil
}

var _ client.Client = (*fakeClient)(nil)
