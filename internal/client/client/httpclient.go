package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/logging"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultPingTimeout = 2 * time.Second
	maxErrorBody       = 512
)

type HTTPClient struct {
	baseURL     string
	http        *http.Client
	tokens      TokenSource
	pingTimeout time.Duration
	logger      logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.http.Timeout = d }
}

// WithPingTimeout sets the explicit deadline of the best-effort Ping call.
func WithPingTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.pingTimeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: defaultTimeout},
		tokens:      tokens,
		pingTimeout: defaultPingTimeout,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call sends the request to the v1 path and, when that fails with a
// non-terminal error, to the legacy path. out may be nil.
func (c *HTTPClient) call(ctx context.Context, method string, ep endpoint, body any, out *any, args ...string) error {
	v1, legacy := ep.paths(args...)

	err := c.do(ctx, method, v1, body, out)
	if err == nil || IsTerminal(err) || ctx.Err() != nil {
		return err
	}

	c.logger.Debug(ctx, "v1 endpoint failed, trying legacy", "method", method, "path", v1, "error", err)
	return c.do(ctx, method, legacy, body, out)
}

// userCall is call for user-scoped endpoints. Without a session it fails with
// ErrUnauthorized and sends nothing.
func (c *HTTPClient) userCall(ctx context.Context, method string, ep endpoint, body any, out *any, args ...string) error {
	uid := c.userID()
	if uid == "" {
		return ErrUnauthorized
	}
	return c.call(ctx, method, ep, body, out, append([]string{uid}, args...)...)
}

func (c *HTTPClient) userID() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.UserID()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out *any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return mapStatus(resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	*out = v
	return nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *HTTPClient) authenticate(ctx context.Context, ep endpoint, username, password string) (string, error) {
	var raw any
	if err := c.call(ctx, http.MethodPost, ep, credentials{Username: username, Password: password}, &raw); err != nil {
		return "", err
	}

	m, _ := raw.(map[string]any)
	tok, _ := m["access_token"].(string)
	if tok == "" {
		// some deployments wrap the token in a data envelope
		if d, ok := m["data"].(map[string]any); ok {
			tok, _ = d["access_token"].(string)
		}
	}
	if tok == "" {
		return "", fmt.Errorf("login response carries no access token")
	}
	return tok, nil
}

// Register creates an account and returns its access token.
func (c *HTTPClient) Register(ctx context.Context, username, password string) (string, error) {
	return c.authenticate(ctx, epRegister, username, password)
}

// Login exchanges credentials for an access token.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	return c.authenticate(ctx, epLogin, username, password)
}

// Ping is best-effort: it runs under its own short deadline and never falls
// back to the legacy path.
func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	v1, _ := epPing.paths()
	if err := c.do(ctx, http.MethodGet, v1, nil, nil); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		return err
	}
	return nil
}

func (c *HTTPClient) ListFavorites(ctx context.Context) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodGet, epFavorites, nil, &out)
	return out, err
}

type favoriteRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Image     string `json:"image,omitempty"`
	Price     string `json:"price,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

func (c *HTTPClient) AddFavorite(ctx context.Context, p models.FavoriteProduct) error {
	req := favoriteRequest{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Image:     p.Image,
		Currency:  p.Currency,
	}
	if !p.Price.IsZero() {
		req.Price = p.Price.String()
	}
	return c.userCall(ctx, http.MethodPost, epFavorites, req, nil)
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, productID string) error {
	return c.userCall(ctx, http.MethodDelete, epFavorite, nil, nil, productID)
}

func (c *HTTPClient) ListCollections(ctx context.Context) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodGet, epCollections, nil, &out)
	return out, err
}

type collectionRequest struct {
	ID string `json:"id,omitempty"`
	models.CollectionInput
}

// CreateCollection creates a collection. A non-empty id makes the call
// idempotent: the backend merges into an existing collection with that id.
func (c *HTTPClient) CreateCollection(ctx context.Context, id string, in models.CollectionInput) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodPost, epCollections, collectionRequest{ID: id, CollectionInput: in}, &out)
	return out, err
}

func (c *HTTPClient) UpdateCollection(ctx context.Context, id string, in models.CollectionInput) error {
	return c.userCall(ctx, http.MethodPut, epCollection, in, nil, id)
}

func (c *HTTPClient) DeleteCollection(ctx context.Context, id string) error {
	return c.userCall(ctx, http.MethodDelete, epCollection, nil, nil, id)
}

func (c *HTTPClient) ListCollectionItems(ctx context.Context, collectionID string) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodGet, epItems, nil, &out, collectionID)
	return out, err
}

type itemRequest struct {
	ProductID string `json:"product_id"`
	Note      string `json:"note,omitempty"`
}

func (c *HTTPClient) AddCollectionItem(ctx context.Context, collectionID, productID, note string) error {
	return c.userCall(ctx, http.MethodPost, epItems, itemRequest{ProductID: productID, Note: note}, nil, collectionID)
}

func (c *HTTPClient) RemoveCollectionItem(ctx context.Context, collectionID, productID string) error {
	return c.userCall(ctx, http.MethodDelete, epItem, nil, nil, collectionID, productID)
}

func (c *HTTPClient) ListSavedStores(ctx context.Context) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodGet, epSavedStores, nil, &out)
	return out, err
}

type storeRequest struct {
	StoreID string `json:"store_id"`
	Name    string `json:"name,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

func (c *HTTPClient) SaveStore(ctx context.Context, s models.Store) error {
	return c.userCall(ctx, http.MethodPost, epSavedStores, storeRequest{StoreID: s.ID, Name: s.Name, Logo: s.Logo}, nil)
}

func (c *HTTPClient) RemoveSavedStore(ctx context.Context, storeID string) error {
	return c.userCall(ctx, http.MethodDelete, epSavedStore, nil, nil, storeID)
}

func (c *HTTPClient) GetWishlistSettings(ctx context.Context) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodGet, epSettings, nil, &out)
	return out, err
}

type settingsRequest struct {
	IsPublic bool `json:"is_public"`
}

func (c *HTTPClient) UpdateWishlistSettings(ctx context.Context, isPublic bool) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodPut, epSettings, settingsRequest{IsPublic: isPublic}, &out)
	return out, err
}

// GenerateShareLink asks the backend for the share link. The backend issues
// the token once and returns the same one on later calls.
func (c *HTTPClient) GenerateShareLink(ctx context.Context) (any, error) {
	var out any
	err := c.userCall(ctx, http.MethodPost, epShareLink, nil, &out)
	return out, err
}

var _ Client = (*HTTPClient)(nil)
