package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHeaderCaseInsensitive tests canonicalized lookup across add,
// get, and delete.
func TestHeaderCaseInsensitive(t *testing.T) {
	h := NewHeader()
	h.Add("content-type", "text/plain")

	assert.Equal(t, "text/plain", h.Get("Content-Type"))
	assert.Equal(t, "text/plain", h.Get("CONTENT-TYPE"))
	assert.True(t, h.Has("content-TYPE"))

	h.Del("Content-type")
	assert.False(t, h.Has("Content-Type"))
	assert.Equal(t, "", h.Get("Content-Type"))
}

// TestHeaderMultiValued tests that Add accumulates and Set replaces.
func TestHeaderMultiValued(t *testing.T) {
	h := NewHeader()
	h.Add("Accept", "text/html")
	h.Add("Accept", "application/json")
	assert.Equal(t, []string{"text/html", "application/json"}, h.Values("Accept"))
	assert.Equal(t, "text/html", h.Get("Accept"))

	h.Set("Accept", "*/*")
	assert.Equal(t, []string{"*/*"}, h.Values("Accept"))
}

// TestHeaderSortedKeys tests lexicographic key ordering used by the
// response encoder.
func TestHeaderSortedKeys(t *testing.T) {
	h := NewHeader()
	h.Set("X-B", "1")
	h.Set("Date", "now")
	h.Set("Content-Length", "0")

	assert.Equal(t, []string{"Content-Length", "Date", "X-B"}, h.SortedKeys())
}

// TestHeaderClone tests that a clone does not alias the original.
func TestHeaderClone(t *testing.T) {
	h := NewHeader()
	h.Add("X-A", "1")

	c := h.Clone()
	c.Add("X-A", "2")
	c.Set("X-B", "3")

	assert.Equal(t, []string{"1"}, h.Values("X-A"))
	assert.False(t, h.Has("X-B"))
	require.Equal(t, 1, h.Len())
}
