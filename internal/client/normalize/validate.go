package normalize

import (
	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/validate"
)

// ValidateFavoriteProduct reports whether p can be rendered and synced.
func ValidateFavoriteProduct(p models.FavoriteProduct) bool {
	return validate.Struct(p) == nil
}
