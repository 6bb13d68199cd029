package normalize

import "github.com/dmitrijs2005/wishsync/internal/client/models"

var settingsFields = struct {
	public, token, url []string
}{
	public: []string{"is_public", "isPublic", "settings.is_public", "settings.isPublic", "data.is_public"},
	token: []string{
		"share_token", "share_link.token", "shareLink.token",
		"settings.share_token", "settings.shareLink.token", "data.share_token",
	},
	url: []string{
		"share_url", "share_link.url", "shareLink.url",
		"settings.share_url", "settings.shareLink.url", "data.share_url",
	},
}

// MapWishlistSettingsResponse normalizes a settings or share link payload.
func MapWishlistSettingsResponse(v any) models.WishlistSettings {
	f := settingsFields
	return models.WishlistSettings{
		IsPublic:   firstBool(v, f.public),
		ShareToken: firstString(v, f.token),
		ShareURL:   firstString(v, f.url),
	}
}
