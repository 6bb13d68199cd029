package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/logging"
	"github.com/dmitrijs2005/wishsync/internal/server/models"
)

type handler struct {
	users    Users
	wishlist Wishlist
	logger   logging.Logger
	present  presenter
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(r.Context(), h.logger, w, err)
}

func (h *handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- auth ----

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	token, err := h.users.Register(r.Context(), req.Username, password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.present.token(token))
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	token, err := h.users.Login(r.Context(), req.Username, password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.token(token))
}

// ---- favorites ----

func (h *handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.wishlist.ListFavorites(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.favorites(favs))
}

func (h *handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	f := &models.Favorite{
		ProductID: req.ProductID,
		Name:      req.Name,
		Brand:     req.Brand,
		Image:     req.Image,
		Currency:  req.Currency,
	}
	if req.Price != "" {
		// numeric has already been checked by the validator
		f.Price = decimal.NewNullDecimal(decimal.RequireFromString(req.Price))
	}

	if err := h.wishlist.AddFavorite(r.Context(), userIDFrom(r.Context()), f); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlist.RemoveFavorite(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "pid")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- collections ----

func (h *handler) listCollections(w http.ResponseWriter, r *http.Request) {
	cs, err := h.wishlist.ListCollections(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.collections(cs))
}

func (h *handler) getCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.wishlist.GetCollection(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "cid"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.collection(c))
}

func (h *handler) createCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.wishlist.CreateCollection(r.Context(), userIDFrom(r.Context()), &models.Collection{
		ID:          req.ID,
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.present.collection(c))
}

func (h *handler) updateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.wishlist.UpdateCollection(r.Context(), userIDFrom(r.Context()), &models.Collection{
		ID:          chi.URLParam(r, "cid"),
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.collection(c))
}

func (h *handler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlist.DeleteCollection(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "cid")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- collection items ----

func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	its, err := h.wishlist.ListItems(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "cid"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.items(its))
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	it := &models.CollectionItem{CollectionID: chi.URLParam(r, "cid"), ProductID: req.ProductID, Note: req.Note}
	if err := h.wishlist.AddItem(r.Context(), userIDFrom(r.Context()), it); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	err := h.wishlist.RemoveItem(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- saved stores ----

func (h *handler) listStores(w http.ResponseWriter, r *http.Request) {
	ss, err := h.wishlist.ListSavedStores(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.present.stores(ss))
}

func (h *handler) saveStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	s := &models.SavedStore{StoreID: req.StoreID, Name: req.Name, Logo: req.Logo}
	if err := h.wishlist.SaveStore(r.Context(), userIDFrom(r.Context()), s); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeStore(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlist.RemoveSavedStore(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "sid")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- privacy and sharing ----

func (h *handler) writeSettings(w http.ResponseWriter, st *models.WishlistSettings) {
	writeJSON(w, http.StatusOK, h.present.settings(st, h.wishlist.ShareURL(st.ShareToken)))
}

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.wishlist.Settings(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSettings(w, st)
}

func (h *handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	st, err := h.wishlist.SetPublic(r.Context(), userIDFrom(r.Context()), *req.IsPublic)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSettings(w, st)
}

func (h *handler) shareLink(w http.ResponseWriter, r *http.Request) {
	st, err := h.wishlist.GenerateShareLink(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeSettings(w, st)
}

// shared serves a public wishlist without authentication.
func (h *handler) shared(w http.ResponseWriter, r *http.Request) {
	sw, err := h.wishlist.Shared(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sharedView(v1Presenter{}, sw))
}
