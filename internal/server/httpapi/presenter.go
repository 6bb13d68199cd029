package httpapi

import (
	"time"

	"github.com/dmitrijs2005/wishsync/internal/server/models"
	"github.com/dmitrijs2005/wishsync/internal/server/services"
)

// presenter renders domain values in one generation of the API's response
// shapes.
type presenter interface {
	favorites([]models.Favorite) any
	collections([]models.Collection) any
	collection(*models.Collection) any
	items([]models.CollectionItem) any
	stores([]models.SavedStore) any
	settings(st *models.WishlistSettings, shareURL string) any
	token(string) any
}

type envelope struct {
	Data any   `json:"data"`
	Meta *meta `json:"meta,omitempty"`
}

type meta struct {
	TotalItems int `json:"total_items"`
}

// ---- /api/v1 ----

type v1Presenter struct{}

type v1Product struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Image    string `json:"image,omitempty"`
	Price    string `json:"price,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type v1Favorite struct {
	Product v1Product `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

type v1Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type v1Item struct {
	CollectionID string    `json:"collection_id"`
	ProductID    string    `json:"product_id"`
	Note         string    `json:"note,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

type v1Store struct {
	Store struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
		Logo string `json:"logo,omitempty"`
	} `json:"store"`
	SavedAt time.Time `json:"saved_at"`
}

type v1ShareLink struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type v1Settings struct {
	IsPublic  bool         `json:"isPublic"`
	ShareLink *v1ShareLink `json:"shareLink,omitempty"`
}

func (v1Presenter) favorites(fs []models.Favorite) any {
	out := make([]v1Favorite, 0, len(fs))
	for _, f := range fs {
		p := v1Product{ID: f.ProductID, Name: f.Name, Brand: f.Brand, Image: f.Image, Currency: f.Currency}
		if f.Price.Valid {
			p.Price = f.Price.Decimal.String()
		}
		out = append(out, v1Favorite{Product: p, AddedAt: f.AddedAt})
	}
	return envelope{Data: map[string]any{"items": out}, Meta: &meta{TotalItems: len(out)}}
}

func toV1Collection(c *models.Collection) v1Collection {
	return v1Collection{
		ID:          c.ID,
		Name:        c.Name,
		Icon:        c.Icon,
		Description: c.Description,
		IsPublic:    c.IsPublic,
		ItemCount:   c.ItemCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (v1Presenter) collections(cs []models.Collection) any {
	out := make([]v1Collection, 0, len(cs))
	for i := range cs {
		out = append(out, toV1Collection(&cs[i]))
	}
	return envelope{Data: map[string]any{"collections": out}, Meta: &meta{TotalItems: len(out)}}
}

func (v1Presenter) collection(c *models.Collection) any {
	return envelope{Data: map[string]any{"collection": toV1Collection(c)}}
}

func (v1Presenter) items(its []models.CollectionItem) any {
	out := make([]v1Item, 0, len(its))
	for _, it := range its {
		out = append(out, v1Item{CollectionID: it.CollectionID, ProductID: it.ProductID, Note: it.Note, AddedAt: it.AddedAt})
	}
	return envelope{Data: map[string]any{"items": out}, Meta: &meta{TotalItems: len(out)}}
}

func (v1Presenter) stores(ss []models.SavedStore) any {
	out := make([]v1Store, 0, len(ss))
	for _, s := range ss {
		var vs v1Store
		vs.Store.ID, vs.Store.Name, vs.Store.Logo = s.StoreID, s.Name, s.Logo
		vs.SavedAt = s.SavedAt
		out = append(out, vs)
	}
	return envelope{Data: map[string]any{"stores": out}}
}

func (v1Presenter) settings(st *models.WishlistSettings, shareURL string) any {
	s := v1Settings{IsPublic: st.IsPublic}
	if st.ShareToken != "" {
		s.ShareLink = &v1ShareLink{Token: st.ShareToken, URL: shareURL}
	}
	return map[string]any{"settings": s}
}

func (v1Presenter) token(t string) any {
	return map[string]string{"access_token": t}
}

func sharedView(p v1Presenter, sw *services.SharedWishlist) any {
	favs := p.favorites(sw.Favorites).(envelope).Data
	cols := p.collections(sw.Collections).(envelope).Data
	return envelope{Data: map[string]any{
		"owner_id":    sw.OwnerID,
		"favorites":   favs,
		"collections": cols,
	}}
}

// ---- /api (historical shapes) ----

type legacyPresenter struct{}

type legacyFavorite struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	BrandName   string    `json:"brand_name,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type legacyCollection struct {
	CollectionID string    `json:"collection_id"`
	Title        string    `json:"title"`
	Emoji        string    `json:"emoji,omitempty"`
	Description  string    `json:"description,omitempty"`
	IsPublic     bool      `json:"isPublic"`
	ItemsCount   int       `json:"items_count"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type legacyItem struct {
	CollectionID string    `json:"collectionId"`
	ID           string    `json:"id"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type legacyStore struct {
	StoreID   string    `json:"store_id"`
	StoreName string    `json:"store_name,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type legacySettings struct {
	IsPublic   bool   `json:"is_public"`
	ShareToken string `json:"share_token,omitempty"`
	ShareURL   string `json:"share_url,omitempty"`
}

func (legacyPresenter) favorites(fs []models.Favorite) any {
	out := make([]legacyFavorite, 0, len(fs))
	for _, f := range fs {
		lf := legacyFavorite{
			ProductID:   f.ProductID,
			ProductName: f.Name,
			BrandName:   f.Brand,
			ImageURL:    f.Image,
			Currency:    f.Currency,
			CreatedAt:   f.AddedAt,
		}
		if f.Price.Valid {
			p := f.Price.Decimal.InexactFloat64()
			lf.Price = &p
		}
		out = append(out, lf)
	}
	return map[string]any{"favorites": out, "total": len(out)}
}

func toLegacyCollection(c *models.Collection) legacyCollection {
	return legacyCollection{
		CollectionID: c.ID,
		Title:        c.Name,
		Emoji:        c.Icon,
		Description:  c.Description,
		IsPublic:     c.IsPublic,
		ItemsCount:   c.ItemCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (legacyPresenter) collections(cs []models.Collection) any {
	out := make([]legacyCollection, 0, len(cs))
	for i := range cs {
		out = append(out, toLegacyCollection(&cs[i]))
	}
	return map[string]any{"collections": out, "total": len(out)}
}

func (legacyPresenter) collection(c *models.Collection) any {
	return map[string]any{"collection": toLegacyCollection(c)}
}

func (legacyPresenter) items(its []models.CollectionItem) any {
	out := make([]legacyItem, 0, len(its))
	for _, it := range its {
		out = append(out, legacyItem{CollectionID: it.CollectionID, ID: it.ProductID, Notes: it.Note, CreatedAt: it.AddedAt})
	}
	return map[string]any{"products": out, "total": len(out)}
}

func (legacyPresenter) stores(ss []models.SavedStore) any {
	out := make([]legacyStore, 0, len(ss))
	for _, s := range ss {
		out = append(out, legacyStore{StoreID: s.StoreID, StoreName: s.Name, LogoURL: s.Logo, CreatedAt: s.SavedAt})
	}
	return map[string]any{"saved_stores": out}
}

func (legacyPresenter) settings(st *models.WishlistSettings, shareURL string) any {
	s := legacySettings{IsPublic: st.IsPublic}
	if st.ShareToken != "" {
		s.ShareToken, s.ShareURL = st.ShareToken, shareURL
	}
	return envelope{Data: s}
}

func (legacyPresenter) token(t string) any {
	return envelope{Data: map[string]string{"access_token": t}}
}
