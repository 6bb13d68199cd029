package normalize

import "github.com/dmitrijs2005/wishsync/internal/client/models"

var storeFields = struct {
	list, id, name, logo, saved []string
}{
	list:  []string{"stores", "saved_stores", "data.stores", "data.saved_stores", "data", ""},
	id:    []string{"id", "store_id", "store.id"},
	name:  []string{"name", "store_name", "store.name"},
	logo:  []string{"logo", "logo_url", "store.logo"},
	saved: []string{"saved_at", "created_at", "savedAt"},
}

// MapSavedStoresResponse normalizes a saved stores payload. A missing saved
// time defaults to the time of mapping.
func MapSavedStoresResponse(v any) []models.SavedStore {
	f := storeFields
	arr, _ := firstArray(v, f.list)

	out := make([]models.SavedStore, 0, len(arr))
	for _, it := range arr {
		s := models.SavedStore{
			ID:   firstString(it, f.id),
			Name: firstString(it, f.name),
			Logo: firstString(it, f.logo),
		}
		t, ok := firstTime(it, f.saved)
		if !ok {
			t = now()
		}
		s.SavedAt = t
		out = append(out, s)
	}
	return out
}
