package storage

// Feature keys. Each holds a JSON-encoded array or scalar and is stored under
// the project namespace prefix.
const (
	KeySavedStores     = "saved_stores"
	KeyFavorites       = "favorites"
	KeyCollections     = "collections"
	KeySearchHistory   = "search_history"
	KeyLanguage        = "language"
	KeyCurrency        = "currency"
	KeySessionToken    = "session_token"
	collectionItemsKey = "collection_items:"
)

// CollectionItemsKey is the key of the guest item list of one collection.
func CollectionItemsKey(collectionID string) string {
	return collectionItemsKey + collectionID
}

// CollectionItemsPattern matches every guest collection item list.
const CollectionItemsPattern = collectionItemsKey + "*"
