// Package storage is the safe wrapper around the local persistent key-value
// store used by guest sessions.
//
// Every operation degrades to a safe default (the supplied default, false or
// an empty slice) when the store is unavailable or fails; nothing is ever
// returned as an error. Failures are classified and logged.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wishsync/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/logging"
)

// ErrQuotaExceeded classifies writes rejected for lack of space.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DefaultQuota bounds a single serialized value, in bytes.
const DefaultQuota = 5 << 20

// Adapter reads and writes namespaced keys of a keyvalue.Repository.
type Adapter struct {
	repo   keyvalue.Repository
	prefix string
	quota  int
	logger logging.Logger
}

// Option customises an Adapter.
type Option func(*Adapter)

// WithPrefix overrides the namespace prefix.
func WithPrefix(prefix string) Option {
	return func(a *Adapter) { a.prefix = prefix }
}

// WithQuota sets the maximum serialized size of a value. Zero disables the check.
func WithQuota(bytes int) Option {
	return func(a *Adapter) { a.quota = bytes }
}

// WithLogger sets the logger used for failure classification.
func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New returns an Adapter over repo. A nil repo yields an unavailable adapter.
func New(repo keyvalue.Repository, opts ...Option) *Adapter {
	a := &Adapter{
		repo:   repo,
		prefix: common.StorageKeyPrefix,
		quota:  DefaultQuota,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Unavailable returns an adapter for contexts without persistent storage.
func Unavailable(opts ...Option) *Adapter {
	return New(nil, opts...)
}

// Available reports whether a backing store is attached.
func (a *Adapter) Available() bool {
	return a != nil && a.repo != nil
}

func (a *Adapter) key(k string) string {
	return a.prefix + k
}

// Get returns the value under key, JSON-decoded when possible and as the raw
// string otherwise. def is returned when the key is absent or the store is
// unavailable.
func (a *Adapter) Get(ctx context.Context, key string, def any) any {
	if !a.Available() {
		return def
	}

	raw, err := a.repo.Get(ctx, a.key(key))
	if err != nil {
		a.logger.Error(ctx, "storage read failed", "key", key, "error", err)
		return def
	}
	if raw == nil {
		return def
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// GetInto decodes the JSON value under key into dst. It returns false when
// the key is absent, the store is unavailable or the value does not decode.
func (a *Adapter) GetInto(ctx context.Context, key string, dst any) bool {
	if !a.Available() {
		return false
	}

	raw, err := a.repo.Get(ctx, a.key(key))
	if err != nil {
		a.logger.Error(ctx, "storage read failed", "key", key, "error", err)
		return false
	}
	if raw == nil {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		a.logger.Warn(ctx, "malformed stored value", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value under key. Strings are written as-is, anything else as
// JSON. It reports whether the write succeeded.
func (a *Adapter) Set(ctx context.Context, key string, value any) bool {
	if !a.Available() {
		return false
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			a.logger.Error(ctx, "storage encode failed", "key", key, "error", err)
			return false
		}
		raw = b
	}

	if a.quota > 0 && len(raw) > a.quota {
		a.logWriteFailure(ctx, key, fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(raw), a.quota))
		return false
	}

	if err := a.repo.Set(ctx, a.key(key), raw); err != nil {
		a.logWriteFailure(ctx, key, classify(err))
		return false
	}
	return true
}

// Remove deletes key.
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if !a.Available() {
		return false
	}
	if err := a.repo.Delete(ctx, a.key(key)); err != nil {
		a.logger.Error(ctx, "storage remove failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key of the namespace.
func (a *Adapter) Clear(ctx context.Context) bool {
	if !a.Available() {
		return false
	}
	if err := a.repo.DeletePrefix(ctx, a.prefix); err != nil {
		a.logger.Error(ctx, "storage clear failed", "error", err)
		return false
	}
	return true
}

// KeysMatching lists keys of the namespace matching a glob pattern
// ("*", "?", "[...]"). Returned keys have the prefix stripped.
func (a *Adapter) KeysMatching(ctx context.Context, pattern string) []string {
	if !a.Available() {
		return []string{}
	}

	keys, err := a.repo.Keys(ctx, escapeGlob(a.prefix)+pattern)
	if err != nil {
		a.logger.Error(ctx, "storage key scan failed", "pattern", pattern, "error", err)
		return []string{}
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, a.prefix))
	}
	return out
}

func (a *Adapter) logWriteFailure(ctx context.Context, key string, err error) {
	if errors.Is(err, ErrQuotaExceeded) {
		a.logger.Warn(ctx, "storage quota exceeded", "key", key, "error", err)
		return
	}
	a.logger.Error(ctx, "storage write failed", "key", key, "error", err)
}

// classify maps SQLite "full" conditions to ErrQuotaExceeded.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "disk is full") || strings.Contains(msg, "sqlite_full") || strings.Contains(msg, "quota") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return err
}

func escapeGlob(s string) string {
	r := strings.NewReplacer("*", "[*]", "?", "[?]", "[", "[[]")
	return r.Replace(s)
}
