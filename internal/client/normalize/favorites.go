package normalize

import "github.com/dmitrijs2005/wishsync/internal/client/models"

var favoriteFields = struct {
	list, total                                  []string
	id, name, brand, image, price, currency, add []string
}{
	list:     []string{"data.items", "items", "data.products", "products", "favorites", "data", ""},
	total:    []string{"meta.total_items", "meta.total", "data.total", "total"},
	id:       []string{"product.id", "product_id", "id"},
	name:     []string{"product.name", "name", "product_name"},
	brand:    []string{"product.brand", "brand", "brand_name"},
	image:    []string{"product.image", "product.image_url", "image", "image_url", "product.images.0"},
	price:    []string{"product.price", "price"},
	currency: []string{"product.currency", "currency"},
	add:      []string{"added_at", "created_at", "addedAt"},
}

// FavoritesResult is the normalized favorites list.
type FavoritesResult struct {
	Items []models.FavoriteProduct `json:"items"`
	Meta  Meta                     `json:"meta"`
}

// MapFavoritesResponse normalizes a favorites payload. Entries without a
// product id keep an empty ID; see ValidateFavoriteProduct.
func MapFavoritesResponse(v any) FavoritesResult {
	f := favoriteFields
	arr, _ := firstArray(v, f.list)

	items := make([]models.FavoriteProduct, 0, len(arr))
	for _, it := range arr {
		p := models.FavoriteProduct{
			ID:       firstString(it, f.id),
			Name:     firstString(it, f.name),
			Brand:    firstString(it, f.brand),
			Image:    firstString(it, f.image),
			Price:    firstDecimal(it, f.price),
			Currency: firstString(it, f.currency),
		}
		p.AddedAt, _ = firstTime(it, f.add)
		items = append(items, p)
	}

	return FavoritesResult{Items: items, Meta: mapMeta(v, f.total, len(items))}
}
