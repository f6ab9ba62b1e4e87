package core

import (
	"fmt"
	"net/url"
	"sort"
)

// Params is the fully resolved query parameter set for one request.
// A nil value means the parameter is absent and is never sent or keyed.
type Params map[string]any

// Encode renders the parameter set as a canonical query string.
// Keys are sorted and nil values are dropped, so two semantically
// identical parameter sets always encode to the same string.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}

	values := url.Values{}
	for key, value := range p {
		if value == nil {
			continue
		}
		values.Set(key, fmt.Sprint(value))
	}
	return values.Encode()
}

// Keys returns the non-nil parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for key, value := range p {
		if value == nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Envelope is the uniform result shape returned for every fetch.
// Callers distinguish success from failure by checking Error; no
// network or HTTP outcome is ever surfaced as a thrown fault.
type Envelope struct {
	Data       any    `json:"data,omitempty"`
	FromCache  bool   `json:"from_cache"`
	StatusCode int    `json:"status_code"`
	Endpoint   string `json:"endpoint"`
	Params     Params `json:"params,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OK reports whether the envelope carries a successful response.
func (e *Envelope) OK() bool {
	return e != nil && e.Error == ""
}

// CacheKey derives the cache key for a path and parameter set.
// Equivalent parameter sets map to the same key regardless of
// insertion order.
func CacheKey(path string, params Params) string {
	query := params.Encode()
	if query == "" {
		return path
	}
	return path + "?" + query
}
