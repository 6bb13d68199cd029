package normalize

import "github.com/dmitrijs2005/wishsync/internal/client/models"

var collectionFields = struct {
	list, total                                  []string
	id, name, icon, desc, public, count, created []string
	updated, items                               []string
}{
	list:    []string{"collections", "data.collections", "data"},
	total:   []string{"meta.total_items", "meta.total", "total"},
	id:      []string{"id", "collection_id", "uuid"},
	name:    []string{"name", "title"},
	icon:    []string{"icon", "emoji"},
	desc:    []string{"description"},
	public:  []string{"is_public", "isPublic", "public"},
	count:   []string{"item_count", "items_count", "itemCount", "product_count"},
	created: []string{"created_at", "createdAt"},
	updated: []string{"updated_at", "updatedAt"},
	items:   []string{"items", "products"},
}

var itemFields = struct {
	list, total                    []string
	collection, product, note, add []string
	summary                        []string
}{
	list:       []string{"items", "products", "data.items", "data.products", "data"},
	total:      []string{"meta.total_items", "meta.total", "total"},
	collection: []string{"collection_id", "collectionId"},
	product:    []string{"product_id", "product.id", "id"},
	note:       []string{"note", "notes"},
	add:        []string{"added_at", "created_at", "addedAt"},
	summary:    []string{"product"},
}

// CollectionsResult is the normalized collections list.
type CollectionsResult struct {
	Collections []models.Collection `json:"collections"`
	Meta        Meta                `json:"meta"`
}

// CollectionItemsResult is the normalized item list of one collection.
type CollectionItemsResult struct {
	Items []models.CollectionItem `json:"items"`
	Meta  Meta                    `json:"meta"`
}

// MapCollectionsResponse normalizes a collections payload. When no candidate
// holds an array the result is empty with a zero total.
func MapCollectionsResponse(v any) CollectionsResult {
	f := collectionFields
	arr, ok := firstArray(v, f.list)
	if !ok {
		return CollectionsResult{Collections: []models.Collection{}, Meta: Meta{TotalItems: 0}}
	}

	out := make([]models.Collection, 0, len(arr))
	for _, it := range arr {
		out = append(out, mapCollection(it))
	}
	return CollectionsResult{Collections: out, Meta: mapMeta(v, f.total, len(out))}
}

// MapCollection normalizes a single collection object, as returned by create
// calls. The object may be wrapped in "data" or "collection".
func MapCollection(v any) models.Collection {
	if m, ok := firstObject(v, []string{"data.collection", "collection", "data"}); ok {
		return mapCollection(m)
	}
	return mapCollection(v)
}

func mapCollection(it any) models.Collection {
	f := collectionFields
	c := models.Collection{
		ID:          firstString(it, f.id),
		Name:        firstString(it, f.name),
		Icon:        firstString(it, f.icon),
		Description: firstString(it, f.desc),
		IsPublic:    firstBool(it, f.public),
	}
	if n, ok := firstInt(it, f.count); ok {
		c.ItemCount = n
	} else if items, ok := firstArray(it, f.items); ok {
		c.ItemCount = len(items)
	}
	c.CreatedAt, _ = firstTime(it, f.created)
	c.UpdatedAt, _ = firstTime(it, f.updated)
	return c
}

// MapCollectionItemsResponse normalizes a collection items payload. Items of
// the flat legacy shape carry the product fields at the top level.
func MapCollectionItemsResponse(v any) CollectionItemsResult {
	f := itemFields
	arr, _ := firstArray(v, f.list)

	out := make([]models.CollectionItem, 0, len(arr))
	for _, it := range arr {
		item := models.CollectionItem{
			CollectionID: firstString(it, f.collection),
			ProductID:    firstString(it, f.product),
			Note:         firstString(it, f.note),
		}
		item.AddedAt, _ = firstTime(it, f.add)

		src := it
		if m, ok := firstObject(it, f.summary); ok {
			src = m
		}
		if name := firstString(src, []string{"name", "title"}); name != "" {
			item.Product = &models.ProductSummary{
				ID:       item.ProductID,
				Name:     name,
				Brand:    firstString(src, favoriteFields.brand),
				Image:    firstString(src, favoriteFields.image),
				Price:    firstDecimal(src, favoriteFields.price),
				Currency: firstString(src, favoriteFields.currency),
			}
		}
		out = append(out, item)
	}

	return CollectionItemsResult{Items: out, Meta: mapMeta(v, f.total, len(out))}
}
