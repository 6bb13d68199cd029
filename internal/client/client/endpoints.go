package client

import (
	"fmt"
	"net/url"
)

const (
	v1Prefix     = "/api/v1"
	legacyPrefix = "/api"
)

// endpoint pairs the versioned and legacy path templates of one call site.
// Templates take url-escaped arguments in order; the user id comes first for
// user-scoped paths.
type endpoint struct {
	v1     string
	legacy string
}

var (
	epLogin    = endpoint{v1: "/auth/login", legacy: "/auth/login"}
	epRegister = endpoint{v1: "/auth/register", legacy: "/auth/register"}
	epPing     = endpoint{v1: "/ping", legacy: "/ping"}

	epFavorites = endpoint{v1: "/users/%s/favorites", legacy: "/users/%s/wishlist"}
	epFavorite  = endpoint{v1: "/users/%s/favorites/%s", legacy: "/users/%s/wishlist/%s"}

	epCollections = endpoint{v1: "/users/%s/collections", legacy: "/users/%s/collections"}
	epCollection  = endpoint{v1: "/users/%s/collections/%s", legacy: "/users/%s/collections/%s"}
	epItems       = endpoint{v1: "/users/%s/collections/%s/items", legacy: "/users/%s/collections/%s/products"}
	epItem        = endpoint{v1: "/users/%s/collections/%s/items/%s", legacy: "/users/%s/collections/%s/products/%s"}

	epSavedStores = endpoint{v1: "/users/%s/saved-stores", legacy: "/users/%s/stores/saved"}
	epSavedStore  = endpoint{v1: "/users/%s/saved-stores/%s", legacy: "/users/%s/stores/saved/%s"}

	epSettings  = endpoint{v1: "/users/%s/wishlist/settings", legacy: "/users/%s/wishlist-settings"}
	epShareLink = endpoint{v1: "/users/%s/wishlist/share", legacy: "/users/%s/wishlist-settings/share"}
)

func (e endpoint) paths(args ...string) (string, string) {
	esc := make([]any, len(args))
	for i, a := range args {
		esc[i] = url.PathEscape(a)
	}
	return v1Prefix + fmt.Sprintf(e.v1, esc...), legacyPrefix + fmt.Sprintf(e.legacy, esc...)
}
