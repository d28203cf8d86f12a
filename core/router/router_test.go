package router

import (
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwell/breeze/core/http"
	"github.com/hotwell/breeze/core/middleware"
)

func ep(name string) middleware.Endpoint {
	return middleware.EndpointFunc(func(*http.Request) (*http.Response, error) {
		res := http.NewResponse(http.StatusOK)
		res.SetBodyString(name)
		return res, nil
	})
}

func routeName(t *testing.T, r *Router, path, method string) (string, int) {
	t.Helper()
	sel := r.Route(path, method)
	require.NotNil(t, sel.Endpoint)
	res, err := sel.Endpoint.Call(http.NewRequest(method, &url.URL{Path: path}))
	require.NoError(t, err)
	body, err := io.ReadAll(res.TakeBody())
	require.NoError(t, err)
	return string(body), res.Status
}

// TestRouterStatic tests exact static matching and 404 for unknown paths.
func TestRouterStatic(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/", ep("root"))
	r.Add(http.MethodGet, "/hello", ep("hello"))
	r.Add(http.MethodGet, "/hello/world", ep("hello-world"))

	tests := []struct {
		path   string
		want   string
		status int
	}{
		{"/", "root", http.StatusOK},
		{"/hello", "hello", http.StatusOK},
		{"/hello/world", "hello-world", http.StatusOK},
		{"/missing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		name, status := routeName(t, r, tt.path, http.MethodGet)
		assert.Equal(t, tt.status, status, "path %s", tt.path)
		if tt.status == http.StatusOK {
			assert.Equal(t, tt.want, name, "path %s", tt.path)
		}
	}
}

// TestRouterPrecedence tests that static beats param beats wildcard,
// segment by segment.
func TestRouterPrecedence(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/user/admin", ep("exact"))
	r.Add(http.MethodGet, "/user/:id", ep("param"))
	r.Add(http.MethodGet, "/user/*", ep("wild"))
	r.Add(http.MethodGet, "/*", ep("catch"))

	tests := []struct {
		path string
		want string
	}{
		{"/user/admin", "exact"},
		{"/user/42", "param"},
		{"/user/42/orders", "wild"},
		{"/other", "catch"},
	}
	for _, tt := range tests {
		name, status := routeName(t, r, tt.path, http.MethodGet)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, tt.want, name, "path %s", tt.path)
	}
}

// TestRouterParams tests parameter and named-wildcard capture.
func TestRouterParams(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/users/:id/posts/:post", ep("post"))
	r.Add(http.MethodGet, "/files/*path", ep("files"))

	sel := r.Route("/users/7/posts/99", http.MethodGet)
	require.NotNil(t, sel.Params)
	id, ok := sel.Params.Get("id")
	require.True(t, ok)
	assert.Equal(t, "7", id)
	post, ok := sel.Params.Get("post")
	require.True(t, ok)
	assert.Equal(t, "99", post)

	sel = r.Route("/files/a/b/c.txt", http.MethodGet)
	wild, ok := sel.Params.Wildcard()
	require.True(t, ok)
	assert.Equal(t, "a/b/c.txt", wild)
	p, ok := sel.Params.Get("path")
	require.True(t, ok)
	assert.Equal(t, "a/b/c.txt", p)
}

// TestRouterWildcardEmptyRemainder tests that a wildcard also matches
// the empty remainder.
func TestRouterWildcardEmptyRemainder(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/static/*", ep("static"))

	sel := r.Route("/static/", http.MethodGet)
	name, status := routeName(t, r, "/static/", http.MethodGet)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "static", name)
	wild, ok := sel.Params.Wildcard()
	require.True(t, ok)
	assert.Equal(t, "", wild)
}

// TestRouterMethodNotAllowed tests the 405 fallback when the path is
// registered for a different method only.
func TestRouterMethodNotAllowed(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/hello", ep("hello"))

	_, status := routeName(t, r, "/hello", http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	_, status = routeName(t, r, "/nothing", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, status)
}

// TestRouterHeadFallsBackToGet tests that HEAD reuses the GET
// registration when no HEAD route exists.
func TestRouterHeadFallsBackToGet(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/hello", ep("get-hello"))
	r.Add(http.MethodHead, "/explicit", ep("head-explicit"))

	name, status := routeName(t, r, "/hello", http.MethodHead)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "get-hello", name)

	name, status = routeName(t, r, "/explicit", http.MethodHead)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "head-explicit", name)
}

// TestRouterAllFallback tests that method-agnostic routes answer any
// method but lose to a method-specific match.
func TestRouterAllFallback(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/resource", ep("get"))
	r.AddAll("/resource", ep("any"))
	r.AddAll("/other", ep("other"))

	name, _ := routeName(t, r, "/resource", http.MethodGet)
	assert.Equal(t, "get", name)

	name, _ = routeName(t, r, "/resource", http.MethodDelete)
	assert.Equal(t, "any", name)

	name, _ = routeName(t, r, "/other", http.MethodPut)
	assert.Equal(t, "other", name)
}

// TestRouterDuplicatePanics tests that registering a pattern twice for
// the same method panics.
func TestRouterDuplicatePanics(t *testing.T) {
	r := New()
	r.Add(http.MethodGet, "/dup", ep("a"))
	assert.Panics(t, func() {
		r.Add(http.MethodGet, "/dup", ep("b"))
	})
	assert.Panics(t, func() {
		r.Add("BOGUS", "/x", ep("c"))
	})
}

// TestPatternParseErrors tests the pattern validation rules.
func TestPatternParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		ok      bool
	}{
		{"/a/:id", true},
		{"/a/*", true},
		{"/a/*rest", true},
		{"no-slash", false},
		{"", false},
		{"/a/:", false},
		{"/a/*/b", false},
	}
	for _, tt := range tests {
		_, err := parsePattern(tt.pattern)
		if tt.ok {
			assert.NoError(t, err, "pattern %q", tt.pattern)
		} else {
			assert.Error(t, err, "pattern %q", tt.pattern)
		}
	}
}

// TestCompareRank tests the specificity ordering including the
// missing-element rule.
func TestCompareRank(t *testing.T) {
	static := []uint8{uint8(segStatic), uint8(segStatic)}
	param := []uint8{uint8(segStatic), uint8(segParam)}
	wild := []uint8{uint8(segStatic), uint8(segCatchAll)}
	short := []uint8{uint8(segStatic)}

	assert.Equal(t, -1, compareRank(static, param))
	assert.Equal(t, -1, compareRank(param, wild))
	assert.Equal(t, 1, compareRank(wild, static))
	assert.Equal(t, 0, compareRank(static, static))
	// exact-length beats spilling into an extra element
	assert.Equal(t, -1, compareRank(short, static))
}

func BenchmarkRouterStatic(b *testing.B) {
	r := New()
	r.Add(http.MethodGet, "/hello/world", ep("x"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Route("/hello/world", http.MethodGet)
	}
}

func BenchmarkRouterParam(b *testing.B) {
	r := New()
	r.Add(http.MethodGet, "/user/:id", ep("x"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Route("/user/123", http.MethodGet)
	}
}
