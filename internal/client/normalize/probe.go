// Package normalize turns the heterogeneous JSON payloads of the backend into
// the stable client models.
//
// The backend exposes several historical naming conventions for one concept
// (items vs products, product_id vs product.id). Each resource declares its
// candidate paths once, in priority order; the first candidate whose value
// has the expected type wins. Missing or malformed values degrade to zero
// values and empty slices. There is no reverse mapping.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// now is the clock used for defaulted timestamps.
var now = time.Now

// lookup resolves a dotted path ("data.items", "product.id") in v. Numeric
// segments index into arrays. The empty path is v itself.
func lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func firstArray(v any, paths []string) ([]any, bool) {
	for _, p := range paths {
		if x, ok := lookup(v, p); ok {
			if arr, ok := x.([]any); ok {
				return arr, true
			}
		}
	}
	return nil, false
}

func firstObject(v any, paths []string) (map[string]any, bool) {
	for _, p := range paths {
		if x, ok := lookup(v, p); ok {
			if m, ok := x.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// firstString accepts strings and, for identifiers that some shapes send as
// numbers, integral numbers.
func firstString(v any, paths []string) string {
	for _, p := range paths {
		x, ok := lookup(v, p)
		if !ok {
			continue
		}
		switch s := x.(type) {
		case string:
			return s
		case json.Number:
			return s.String()
		case float64:
			if s == math.Trunc(s) {
				return strconv.FormatInt(int64(s), 10)
			}
		case int:
			return strconv.Itoa(s)
		case int64:
			return strconv.FormatInt(s, 10)
		}
	}
	return ""
}

func asFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func firstInt(v any, paths []string) (int, bool) {
	for _, p := range paths {
		if x, ok := lookup(v, p); ok {
			if f, ok := asFloat(x); ok {
				return int(f), true
			}
		}
	}
	return 0, false
}

func firstBool(v any, paths []string) bool {
	for _, p := range paths {
		if x, ok := lookup(v, p); ok {
			if b, ok := x.(bool); ok {
				return b
			}
		}
	}
	return false
}

// firstDecimal accepts numbers and numeric strings.
func firstDecimal(v any, paths []string) decimal.Decimal {
	for _, p := range paths {
		x, ok := lookup(v, p)
		if !ok {
			continue
		}
		switch n := x.(type) {
		case json.Number:
			if d, err := decimal.NewFromString(n.String()); err == nil {
				return d
			}
		case string:
			if d, err := decimal.NewFromString(n); err == nil {
				return d
			}
		default:
			if f, ok := asFloat(n); ok {
				return decimal.NewFromFloat(f)
			}
		}
	}
	return decimal.Zero
}

// firstTime accepts RFC 3339 strings and unix timestamps in seconds or
// milliseconds.
func firstTime(v any, paths []string) (time.Time, bool) {
	for _, p := range paths {
		x, ok := lookup(v, p)
		if !ok {
			continue
		}
		if s, ok := x.(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t, true
			}
			continue
		}
		if f, ok := asFloat(x); ok {
			sec := int64(f)
			if sec > 1e12 {
				return time.UnixMilli(sec).UTC(), true
			}
			return time.Unix(sec, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// Meta carries list metadata.
type Meta struct {
	TotalItems int `json:"total_items"`
}

func mapMeta(v any, paths []string, n int) Meta {
	if total, ok := firstInt(v, paths); ok {
		return Meta{TotalItems: total}
	}
	return Meta{TotalItems: n}
}
