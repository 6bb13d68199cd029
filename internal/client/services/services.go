// Package services contains the state services of the wishsync client:
// saved stores, favorites, collections, search history, preferences and
// wishlist privacy, plus authentication and the guest data migration.
//
// Every list service follows the same two-state machine. For guests, reads
// and writes go to local storage only. Once signed in, reads go through the
// query cache keyed by resource name and mutations call the backend, then
// invalidate the cache. Nothing is changed locally before the backend
// confirms a mutation. Read failures yield empty results and are logged;
// mutation failures are returned to the caller.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/wishsync/internal/client/client"
	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/query"
	"github.com/dmitrijs2005/wishsync/internal/client/session"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/logging"
)

// ErrAuthRequired is returned by operations that have no guest mode.
var ErrAuthRequired = errors.New("sign in required")

// Cache keys of authenticated reads.
const (
	cacheSavedStores = "saved_stores"
	cacheFavorites   = "favorites"
	cacheCollections = "collections"
	cacheSettings    = "wishlist_settings"
)

func cacheItems(collectionID string) string {
	return "collection_items:" + collectionID
}

// Session is the part of the session provider the services depend on.
type Session interface {
	Authenticated() bool
	SignIn(ctx context.Context, token string) (session.Session, error)
	SignOut(ctx context.Context)
}

// Deps bundles the collaborators shared by the services.
type Deps struct {
	Store   *storage.Adapter
	Client  client.Client
	Session Session
	Cache   *query.Cache
	Logger  logging.Logger
	Now     func() time.Time

	// mu serialises read-modify-write cycles on local storage. Services built
	// by NewServices share one.
	mu *sync.Mutex
}

func (d Deps) withDefaults() Deps {
	if d.Store == nil {
		d.Store = storage.Unavailable()
	}
	if d.Cache == nil {
		d.Cache = query.New(query.DefaultStaleTime, query.WithTerminal(client.IsTerminal))
	}
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.mu == nil {
		d.mu = &sync.Mutex{}
	}
	return d
}

func (d Deps) authenticated() bool {
	return d.Session != nil && d.Session.Authenticated()
}

// Services groups every service over one set of dependencies.
type Services struct {
	Auth          AuthService
	SavedStores   SavedStoresService
	Favorites     FavoritesService
	Collections   CollectionsService
	SearchHistory SearchHistoryService
	Preferences   PreferencesService
	Wishlist      WishlistService
	Migrator      *GuestMigrator

	cache *query.Cache
}

func NewServices(d Deps, prefs models.Preferences) *Services {
	d.mu = &sync.Mutex{}
	d = d.withDefaults()
	return &Services{
		Auth:          NewAuthService(d),
		SavedStores:   NewSavedStoresService(d),
		Favorites:     NewFavoritesService(d),
		Collections:   NewCollectionsService(d),
		SearchHistory: NewSearchHistoryService(d),
		Preferences:   NewPreferencesService(d, prefs),
		Wishlist:      NewWishlistService(d),
		Migrator:      NewGuestMigrator(d),
		cache:         d.Cache,
	}
}

// Attach subscribes the services to p and returns a function detaching
// them. Cached remote reads are dropped whenever the signed-in user changes,
// and guest data is migrated on every guest to authenticated transition.
// Call it before the first p.Load so a restored session is handled too.
func (s *Services) Attach(p Subscriber) func() {
	cache := s.cache
	stopReset := p.Subscribe(func(_ context.Context, prev, next session.Session) {
		if prev.UserID != next.UserID {
			cache.Reset()
		}
	})
	stopMigrate := s.Migrator.Attach(p)
	return func() {
		stopMigrate()
		stopReset()
	}
}

func loadList[T any](ctx context.Context, d Deps, key string) []T {
	var out []T
	if !d.Store.GetInto(ctx, key, &out) || out == nil {
		return []T{}
	}
	return out
}

func saveList[T any](ctx context.Context, d Deps, key string, list []T) bool {
	return d.Store.Set(ctx, key, list)
}

// idSet is the membership index rebuilt with every list.
type idSet map[string]struct{}

func indexBy[T any](list []T, id func(T) string) idSet {
	s := make(idSet, len(list))
	for _, it := range list {
		s[id(it)] = struct{}{}
	}
	return s
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func indexOf[T any](list []T, id string, key func(T) string) int {
	for i, it := range list {
		if key(it) == id {
			return i
		}
	}
	return -1
}

// fetch reads key through the cache. Failures are logged and reported as
// a nil payload.
func fetch(ctx context.Context, d Deps, key string, fn query.FetchFunc) any {
	v, err := d.Cache.Fetch(ctx, key, fn)
	if err != nil {
		d.Logger.Warn(ctx, "remote read failed", "resource", key, "error", err)
		return nil
	}
	return v
}
