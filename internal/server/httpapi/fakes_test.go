package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/logging"
	"github.com/dmitrijs2005/wishsync/internal/server/models"
	"github.com/dmitrijs2005/wishsync/internal/server/services"
)

var fixedTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeUsers knows alice/secret (u1) and bob/secret (u2). Tokens are
// "tok-<uid>".
type fakeUsers struct{}

func (fakeUsers) Register(ctx context.Context, username string, password []byte) (string, error) {
	if username == "alice" {
		return "", common.ErrorAlreadyExists
	}
	return "tok-new", nil
}

func (fakeUsers) Login(ctx context.Context, username string, password []byte) (string, error) {
	if string(password) != "secret" {
		return "", common.ErrInvalidLoginPassword
	}
	switch username {
	case "alice":
		return "tok-u1", nil
	case "bob":
		return "tok-u2", nil
	}
	return "", common.ErrInvalidLoginPassword
}

func (fakeUsers) Authenticate(token string) (string, error) {
	if uid, ok := strings.CutPrefix(token, "tok-"); ok && uid != "" {
		return uid, nil
	}
	return "", common.ErrInvalidToken
}

type memWishlist struct {
	mu          sync.Mutex
	favorites   map[string][]models.Favorite
	collections map[string]*models.Collection
	items       map[string][]models.CollectionItem
	stores      map[string][]models.SavedStore
	settings    map[string]*models.WishlistSettings
	nextID      int
}

func newMemWishlist() *memWishlist {
	return &memWishlist{
		favorites:   map[string][]models.Favorite{},
		collections: map[string]*models.Collection{},
		items:       map[string][]models.CollectionItem{},
		stores:      map[string][]models.SavedStore{},
		settings:    map[string]*models.WishlistSettings{},
	}
}

func (m *memWishlist) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Favorite{}, m.favorites[userID]...), nil
}

func (m *memWishlist) AddFavorite(ctx context.Context, userID string, f *models.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.favorites[userID] {
		if x.ProductID == f.ProductID {
			return nil
		}
	}
	f.UserID, f.AddedAt = userID, fixedTime
	m.favorites[userID] = append(m.favorites[userID], *f)
	return nil
}

func (m *memWishlist) RemoveFavorite(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Favorite
	for _, x := range m.favorites[userID] {
		if x.ProductID != productID {
			out = append(out, x)
		}
	}
	m.favorites[userID] = out
	return nil
}

func (m *memWishlist) ListCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Collection{}
	for _, c := range m.collections {
		if c.UserID == userID {
			cc := *c
			cc.ItemCount = len(m.items[c.ID])
			out = append(out, cc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memWishlist) getLocked(userID, id string) (*models.Collection, error) {
	c, ok := m.collections[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cc := *c
	cc.ItemCount = len(m.items[id])
	return &cc, nil
}

func (m *memWishlist) GetCollection(ctx context.Context, userID, id string) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(userID, id)
}

func (m *memWishlist) CreateCollection(ctx context.Context, userID string, c *models.Collection) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		m.nextID++
		c.ID = "c" + string(rune('0'+m.nextID))
	}
	if existing, ok := m.collections[c.ID]; ok {
		if existing.UserID != userID {
			return nil, common.ErrorAlreadyExists
		}
		return m.getLocked(userID, c.ID)
	}
	c.UserID, c.CreatedAt, c.UpdatedAt = userID, fixedTime, fixedTime
	m.collections[c.ID] = c
	return m.getLocked(userID, c.ID)
}

func (m *memWishlist) UpdateCollection(ctx context.Context, userID string, c *models.Collection) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, err := m.getLocked(userID, c.ID)
	if err != nil {
		return nil, err
	}
	cur.Name, cur.Icon, cur.Description, cur.IsPublic = c.Name, c.Icon, c.Description, c.IsPublic
	m.collections[c.ID] = cur
	return m.getLocked(userID, c.ID)
}

func (m *memWishlist) DeleteCollection(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.collections[id]; ok && c.UserID == userID {
		delete(m.collections, id)
		delete(m.items, id)
	}
	return nil
}

func (m *memWishlist) ListItems(ctx context.Context, userID, collectionID string) ([]models.CollectionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getLocked(userID, collectionID); err != nil {
		return nil, err
	}
	return append([]models.CollectionItem{}, m.items[collectionID]...), nil
}

func (m *memWishlist) AddItem(ctx context.Context, userID string, it *models.CollectionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getLocked(userID, it.CollectionID); err != nil {
		return err
	}
	it.AddedAt = fixedTime
	m.items[it.CollectionID] = append(m.items[it.CollectionID], *it)
	return nil
}

func (m *memWishlist) RemoveItem(ctx context.Context, userID, collectionID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getLocked(userID, collectionID); err != nil {
		return err
	}
	var out []models.CollectionItem
	for _, x := range m.items[collectionID] {
		if x.ProductID != productID {
			out = append(out, x)
		}
	}
	m.items[collectionID] = out
	return nil
}

func (m *memWishlist) ListSavedStores(ctx context.Context, userID string) ([]models.SavedStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SavedStore{}, m.stores[userID]...), nil
}

func (m *memWishlist) SaveStore(ctx context.Context, userID string, s *models.SavedStore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UserID, s.SavedAt = userID, fixedTime
	m.stores[userID] = append(m.stores[userID], *s)
	return nil
}

func (m *memWishlist) RemoveSavedStore(ctx context.Context, userID, storeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SavedStore
	for _, x := range m.stores[userID] {
		if x.StoreID != storeID {
			out = append(out, x)
		}
	}
	m.stores[userID] = out
	return nil
}

func (m *memWishlist) settingsLocked(userID string) *models.WishlistSettings {
	s, ok := m.settings[userID]
	if !ok {
		s = &models.WishlistSettings{UserID: userID}
		m.settings[userID] = s
	}
	return s
}

func (m *memWishlist) Settings(ctx context.Context, userID string) (*models.WishlistSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.settingsLocked(userID)
	return &s, nil
}

func (m *memWishlist) SetPublic(ctx context.Context, userID string, public bool) (*models.WishlistSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settingsLocked(userID)
	s.IsPublic = public
	out := *s
	return &out, nil
}

func (m *memWishlist) GenerateShareLink(ctx context.Context, userID string) (*models.WishlistSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settingsLocked(userID)
	if s.ShareToken == "" {
		s.ShareToken = "share-" + userID
	}
	out := *s
	return &out, nil
}

func (m *memWishlist) ShareURL(token string) string {
	if token == "" {
		return ""
	}
	return "https://shop.example/shared/" + token
}

func (m *memWishlist) Shared(ctx context.Context, token string) (*services.SharedWishlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, s := range m.settings {
		if s.ShareToken == token && s.IsPublic {
			return &services.SharedWishlist{OwnerID: uid, Favorites: m.favorites[uid]}, nil
		}
	}
	return nil, common.ErrorNotFound
}

func newTestServer(t *testing.T, legacyOnly bool) (*httptest.Server, *memWishlist) {
	t.Helper()
	wl := newMemWishlist()
	h := NewRouter(Deps{
		Users:      fakeUsers{},
		Wishlist:   wl,
		Logger:     logging.NewNop(),
		LegacyOnly: legacyOnly,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, wl
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
