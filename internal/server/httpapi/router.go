// Package httpapi serves the wishsync REST resource family. Every route is
// mounted twice: under /api/v1 with the current response shapes and under
// /api with the historical ones.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/wishsync/internal/logging"
	"github.com/dmitrijs2005/wishsync/internal/server/metrics"
	"github.com/dmitrijs2005/wishsync/internal/server/models"
	"github.com/dmitrijs2005/wishsync/internal/server/ratelimit"
	"github.com/dmitrijs2005/wishsync/internal/server/services"
)

type Users interface {
	Register(ctx context.Context, username string, password []byte) (string, error)
	Login(ctx context.Context, username string, password []byte) (string, error)
	Authenticate(token string) (string, error)
}

type Wishlist interface {
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, userID string, f *models.Favorite) error
	RemoveFavorite(ctx context.Context, userID, productID string) error

	ListCollections(ctx context.Context, userID string) ([]models.Collection, error)
	GetCollection(ctx context.Context, userID, id string) (*models.Collection, error)
	CreateCollection(ctx context.Context, userID string, c *models.Collection) (*models.Collection, error)
	UpdateCollection(ctx context.Context, userID string, c *models.Collection) (*models.Collection, error)
	DeleteCollection(ctx context.Context, userID, id string) error

	ListItems(ctx context.Context, userID, collectionID string) ([]models.CollectionItem, error)
	AddItem(ctx context.Context, userID string, it *models.CollectionItem) error
	RemoveItem(ctx context.Context, userID, collectionID, productID string) error

	ListSavedStores(ctx context.Context, userID string) ([]models.SavedStore, error)
	SaveStore(ctx context.Context, userID string, s *models.SavedStore) error
	RemoveSavedStore(ctx context.Context, userID, storeID string) error

	Settings(ctx context.Context, userID string) (*models.WishlistSettings, error)
	SetPublic(ctx context.Context, userID string, public bool) (*models.WishlistSettings, error)
	GenerateShareLink(ctx context.Context, userID string) (*models.WishlistSettings, error)
	ShareURL(token string) string
	Shared(ctx context.Context, token string) (*services.SharedWishlist, error)
}

// Deps carries what the router serves. Metrics and Limiter may be nil.
type Deps struct {
	Users    Users
	Wishlist Wishlist
	Logger   logging.Logger
	Metrics  *metrics.HTTPMetrics
	Limiter  *ratelimit.Limiter

	// LegacyOnly leaves /api/v1 unmounted, as older deployments did.
	LegacyOnly bool
}

// paths names the resource segments that differ between API generations.
type paths struct {
	favorites, items, stores, settings, share string
}

var (
	v1Paths = paths{
		favorites: "/favorites",
		items:     "/items",
		stores:    "/saved-stores",
		settings:  "/wishlist/settings",
		share:     "/wishlist/share",
	}
	legacyPaths = paths{
		favorites: "/wishlist",
		items:     "/products",
		stores:    "/stores/saved",
		settings:  "/wishlist-settings",
		share:     "/wishlist-settings/share",
	}
)

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(d.Logger),
		middleware.Recoverer,
		d.Metrics.Middleware,
		ratelimit.Middleware(d.Limiter, d.Logger),
	)

	v1 := &handler{users: d.Users, wishlist: d.Wishlist, logger: d.Logger, present: v1Presenter{}}
	legacy := &handler{users: d.Users, wishlist: d.Wishlist, logger: d.Logger, present: legacyPresenter{}}

	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	r.Get("/shared/{token}", v1.shared)

	r.Route("/api", func(r chi.Router) {
		if !d.LegacyOnly {
			r.Route("/v1", func(r chi.Router) {
				r.Get("/shared/{token}", v1.shared)
				v1.mount(r, v1Paths)
			})
		}
		legacy.mount(r, legacyPaths)
	})

	return r
}

func (h *handler) mount(r chi.Router, p paths) {
	r.Get("/ping", h.ping)
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Route("/users/{uid}", func(r chi.Router) {
		r.Use(authenticate(h.users, h.logger), sameUser(h.logger))

		r.Get(p.favorites, h.listFavorites)
		r.Post(p.favorites, h.addFavorite)
		r.Delete(p.favorites+"/{pid}", h.removeFavorite)

		r.Get("/collections", h.listCollections)
		r.Post("/collections", h.createCollection)
		r.Get("/collections/{cid}", h.getCollection)
		r.Put("/collections/{cid}", h.updateCollection)
		r.Delete("/collections/{cid}", h.deleteCollection)

		r.Get("/collections/{cid}"+p.items, h.listItems)
		r.Post("/collections/{cid}"+p.items, h.addItem)
		r.Delete("/collections/{cid}"+p.items+"/{pid}", h.removeItem)

		r.Get(p.stores, h.listStores)
		r.Post(p.stores, h.saveStore)
		r.Delete(p.stores+"/{sid}", h.removeStore)

		r.Get(p.settings, h.getSettings)
		r.Put(p.settings, h.updateSettings)
		r.Post(p.share, h.shareLink)
	})
}
