package http

import (
	"net/textproto"
	"sort"
)

// Common header names.
const (
	HeaderConnection       = "Connection"
	HeaderContentLength    = "Content-Length"
	HeaderContentType      = "Content-Type"
	HeaderDate             = "Date"
	HeaderExpect           = "Expect"
	HeaderHost             = "Host"
	HeaderTransferEncoding = "Transfer-Encoding"
	HeaderUpgrade          = "Upgrade"
	HeaderRetryAfter       = "Retry-After"
)

type headerEntry struct {
	key    string // canonical form
	values []string
}

// Header is an ordered, multi-valued header collection. Keys are
// case-insensitive; insertion order is preserved per key.
type Header struct {
	entries []headerEntry
}

// NewHeader creates an empty header collection.
func NewHeader() *Header {
	return &Header{}
}

func canonical(key string) string {
	return textproto.CanonicalMIMEHeaderKey(key)
}

func (h *Header) find(key string) *headerEntry {
	for i := range h.entries {
		if h.entries[i].key == key {
			return &h.entries[i]
		}
	}
	return nil
}

// Add appends a value for key, keeping any existing values.
func (h *Header) Add(key, value string) {
	k := canonical(key)
	if e := h.find(k); e != nil {
		e.values = append(e.values, value)
		return
	}
	h.entries = append(h.entries, headerEntry{key: k, values: []string{value}})
}

// Set replaces all values for key with value.
func (h *Header) Set(key, value string) {
	k := canonical(key)
	if e := h.find(k); e != nil {
		e.values = append(e.values[:0], value)
		return
	}
	h.entries = append(h.entries, headerEntry{key: k, values: []string{value}})
}

// Get returns the first value for key, or "" when absent.
func (h *Header) Get(key string) string {
	if e := h.find(canonical(key)); e != nil {
		return e.values[0]
	}
	return ""
}

// Values returns all values for key in insertion order.
func (h *Header) Values(key string) []string {
	if e := h.find(canonical(key)); e != nil {
		return e.values
	}
	return nil
}

// Has reports whether key is present.
func (h *Header) Has(key string) bool {
	return h.find(canonical(key)) != nil
}

// Del removes all values for key.
func (h *Header) Del(key string) {
	k := canonical(key)
	for i := range h.entries {
		if h.entries[i].key == k {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of distinct keys.
func (h *Header) Len() int {
	return len(h.entries)
}

// Each calls fn for every (key, value) pair in insertion order.
func (h *Header) Each(fn func(key, value string)) {
	for _, e := range h.entries {
		for _, v := range e.values {
			fn(e.key, v)
		}
	}
}

// SortedKeys returns all keys sorted lexicographically. The encoder
// serializes header blocks in this order.
func (h *Header) SortedKeys() []string {
	keys := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		keys = append(keys, e.key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := &Header{entries: make([]headerEntry, len(h.entries))}
	for i, e := range h.entries {
		c.entries[i] = headerEntry{key: e.key, values: append([]string(nil), e.values...)}
	}
	return c
}
