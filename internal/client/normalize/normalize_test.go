package normalize

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func fixClock(t *testing.T, ts time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestMapCollectionsResponse_NonArray(t *testing.T) {
	want := CollectionsResult{Collections: []models.Collection{}, Meta: Meta{TotalItems: 0}}

	for name, payload := range map[string]any{
		"null":    map[string]any{"collections": nil},
		"missing": map[string]any{},
		"string":  map[string]any{"collections": "nope"},
		"object":  map[string]any{"collections": map[string]any{"id": "c1"}},
		"nil":     nil,
		"number":  42.0,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, MapCollectionsResponse(payload))
		})
	}
}

func TestMapCollectionsResponse_Shapes(t *testing.T) {
	v1 := decode(t, `{"data":{"collections":[{"id":"c1","name":"Summer","icon":"☀","is_public":true,"item_count":3,"created_at":"2024-05-01T10:00:00Z"}]},"meta":{"total_items":7}}`)
	legacy := decode(t, `{"collections":[{"collection_id":42,"title":"Summer","isPublic":true,"products":[{},{},{}],"createdAt":1714557600}],"total":7}`)

	for name, payload := range map[string]any{"v1": v1, "legacy": legacy} {
		t.Run(name, func(t *testing.T) {
			got := MapCollectionsResponse(payload)
			require.Len(t, got.Collections, 1)
			c := got.Collections[0]
			assert.NotEmpty(t, c.ID)
			assert.Equal(t, "Summer", c.Name)
			assert.True(t, c.IsPublic)
			assert.Equal(t, 3, c.ItemCount)
			assert.True(t, c.CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
			assert.Equal(t, 7, got.Meta.TotalItems)
		})
	}

	assert.Equal(t, "42", MapCollectionsResponse(legacy).Collections[0].ID)
}

func TestMapCollectionsResponse_TotalDefaultsToLength(t *testing.T) {
	got := MapCollectionsResponse(decode(t, `{"data":[{"id":"a"},{"id":"b"}]}`))
	assert.Equal(t, 2, got.Meta.TotalItems)
}

func TestMapCollection_Wrapped(t *testing.T) {
	for _, s := range []string{
		`{"id":"c1","name":"N"}`,
		`{"data":{"id":"c1","name":"N"}}`,
		`{"collection":{"id":"c1","name":"N"}}`,
	} {
		c := MapCollection(decode(t, s))
		assert.Equal(t, "c1", c.ID, s)
		assert.Equal(t, "N", c.Name, s)
	}
}

func TestMapFavoritesResponse_MissingID(t *testing.T) {
	got := MapFavoritesResponse(map[string]any{
		"items": []any{map[string]any{"name": "No id"}},
	})

	require.Len(t, got.Items, 1)
	assert.Equal(t, "", got.Items[0].ID)
	assert.Equal(t, "No id", got.Items[0].Name)
	assert.False(t, ValidateFavoriteProduct(got.Items[0]))
}

func TestMapFavoritesResponse_Shapes(t *testing.T) {
	want := []models.FavoriteProduct{{
		ID:       "p1",
		Name:     "Linen dress",
		Brand:    "Acme",
		Image:    "https://img/p1.jpg",
		Price:    decimal.RequireFromString("49.90"),
		Currency: "EUR",
		AddedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}

	cases := map[string]string{
		"v1":     `{"data":{"items":[{"id":"f9","product":{"id":"p1","name":"Linen dress","brand":"Acme","image":"https://img/p1.jpg","price":49.90,"currency":"EUR"},"added_at":"2024-05-01T10:00:00Z"}]},"meta":{"total_items":1}}`,
		"legacy": `{"products":[{"product_id":"p1","product_name":"Linen dress","brand_name":"Acme","image_url":"https://img/p1.jpg","price":"49.90","currency":"EUR","created_at":"2024-05-01T10:00:00Z"}],"total":1}`,
		"array":  `[{"product_id":"p1","name":"Linen dress","brand":"Acme","image":"https://img/p1.jpg","price":49.9,"currency":"EUR","addedAt":1714557600000}]`,
	}

	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			got := MapFavoritesResponse(decode(t, s))
			if diff := cmp.Diff(want, got.Items, decimalComparer); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 1, got.Meta.TotalItems)
			assert.True(t, ValidateFavoriteProduct(got.Items[0]))
		})
	}
}

func TestMapFavoritesResponse_Malformed(t *testing.T) {
	got := MapFavoritesResponse(decode(t, `{"items":[{"id":{"x":1},"price":"abc","added_at":"yesterday"}, 5, null]}`))

	require.Len(t, got.Items, 3)
	for _, it := range got.Items {
		assert.Equal(t, "", it.ID)
		assert.True(t, it.Price.IsZero())
		assert.True(t, it.AddedAt.IsZero())
	}
}

func TestMapCollectionItemsResponse_Shapes(t *testing.T) {
	v1 := decode(t, `{"items":[{"collection_id":"c1","product_id":"p1","note":"gift","added_at":"2024-05-01T10:00:00Z","product":{"id":"p1","name":"Bag","price":"120"}}],"meta":{"total_items":1}}`)
	legacy := decode(t, `{"products":[{"product":{"id":"p1","name":"Bag","price":120},"notes":"gift","created_at":"2024-05-01T10:00:00Z"}]}`)
	flat := decode(t, `{"data":[{"id":"p1","name":"Bag","price":120,"note":"gift","addedAt":"2024-05-01T10:00:00Z"}]}`)

	for name, payload := range map[string]any{"v1": v1, "legacy": legacy, "flat": flat} {
		t.Run(name, func(t *testing.T) {
			got := MapCollectionItemsResponse(payload)
			require.Len(t, got.Items, 1)
			it := got.Items[0]
			assert.Equal(t, "p1", it.ProductID)
			assert.Equal(t, "gift", it.Note)
			require.NotNil(t, it.Product)
			assert.Equal(t, "Bag", it.Product.Name)
			assert.True(t, it.Product.Price.Equal(decimal.NewFromInt(120)))
			assert.Equal(t, 1, got.Meta.TotalItems)
		})
	}
}

func TestMapCollectionItemsResponse_Empty(t *testing.T) {
	got := MapCollectionItemsResponse(nil)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Meta.TotalItems)
}

func TestMapSavedStoresResponse(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	fixClock(t, ts)

	got := MapSavedStoresResponse(decode(t, `{"stores":[{"id":"s1","name":"Acme"}]}`))
	assert.Equal(t, []models.SavedStore{{ID: "s1", Name: "Acme", SavedAt: ts}}, got)

	legacy := MapSavedStoresResponse(decode(t, `{"saved_stores":[{"store_id":"s2","store_name":"Beta","logo_url":"l.png","created_at":"2024-01-01T00:00:00Z"}]}`))
	require.Len(t, legacy, 1)
	assert.Equal(t, "s2", legacy[0].ID)
	assert.Equal(t, "Beta", legacy[0].Name)
	assert.Equal(t, "l.png", legacy[0].Logo)
	assert.Equal(t, 2024, legacy[0].SavedAt.Year())

	assert.Equal(t, []models.SavedStore{}, MapSavedStoresResponse("garbage"))
}

func TestMapWishlistSettingsResponse(t *testing.T) {
	want := models.WishlistSettings{IsPublic: true, ShareToken: "tok", ShareURL: "https://s/tok"}

	assert.Equal(t, want, MapWishlistSettingsResponse(decode(t, `{"is_public":true,"share_token":"tok","share_url":"https://s/tok"}`)))
	assert.Equal(t, want, MapWishlistSettingsResponse(decode(t, `{"settings":{"isPublic":true,"shareLink":{"token":"tok","url":"https://s/tok"}}}`)))
	assert.Equal(t, models.WishlistSettings{}, MapWishlistSettingsResponse(nil))
}

func TestValidateFavoriteProduct_Currency(t *testing.T) {
	assert.True(t, ValidateFavoriteProduct(models.FavoriteProduct{ID: "p"}))
	assert.False(t, ValidateFavoriteProduct(models.FavoriteProduct{ID: "p", Currency: "EURO"}))
}

func TestLookup(t *testing.T) {
	v := decode(t, `{"a":{"b":[{"c":"x"}]}}`)

	got, ok := lookup(v, "a.b.0.c")
	require.True(t, ok)
	assert.Equal(t, "x", got)

	_, ok = lookup(v, "a.b.5.c")
	assert.False(t, ok)
	_, ok = lookup(v, "a.b.x")
	assert.False(t, ok)
}
