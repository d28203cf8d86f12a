package http

import (
	"io"
	"net/url"
	"strings"
)

// Request is one decoded HTTP request. It is owned by the handling
// goroutine for the lifetime of the exchange; the body is move-only.
type Request struct {
	Method string
	URL    *url.URL
	Proto  string
	Header *Header

	body     io.Reader
	captures []*Captures
	ext      map[any]any
	state    any
	trailers <-chan *Header

	remoteAddr string
	localAddr  string
}

// NewRequest creates a request with an empty body.
func NewRequest(method string, u *url.URL) *Request {
	return &Request{
		Method: method,
		URL:    u,
		Proto:  "HTTP/1.1",
		Header: NewHeader(),
	}
}

// SetBody replaces the request body stream.
func (r *Request) SetBody(body io.Reader) {
	r.body = body
}

// Body returns the current body stream without consuming it.
func (r *Request) Body() io.Reader {
	if r.body == nil {
		return strings.NewReader("")
	}
	return r.body
}

// TakeBody moves the body out of the request, leaving an empty body
// behind. Reading the body is the caller's responsibility after this.
func (r *Request) TakeBody() io.Reader {
	b := r.Body()
	r.body = strings.NewReader("")
	return b
}

// BodyBytes consumes and returns the whole body.
func (r *Request) BodyBytes() ([]byte, error) {
	return io.ReadAll(r.TakeBody())
}

// BodyString consumes the body and returns it as a string.
func (r *Request) BodyString() (string, error) {
	b, err := r.BodyBytes()
	return string(b), err
}

// PushCaptures appends a capture set. Nested routers push additional
// sets, so the last set is always the most specific one.
func (r *Request) PushCaptures(c *Captures) {
	r.captures = append(r.captures, c)
}

// Param returns the named route parameter, consulting capture sets
// most-specific-first. Missing parameters yield "".
func (r *Request) Param(name string) string {
	for i := len(r.captures) - 1; i >= 0; i-- {
		if v, ok := r.captures[i].Get(name); ok {
			return v
		}
	}
	return ""
}

// Wildcard returns the innermost trailing-wildcard capture, or "".
func (r *Request) Wildcard() string {
	for i := len(r.captures) - 1; i >= 0; i-- {
		if v, ok := r.captures[i].Wildcard(); ok {
			return v
		}
	}
	return ""
}

// SetValue stores a value in the request's extension map, keyed by an
// arbitrary (typically unexported struct) type. Middleware uses it to
// communicate along the chain.
func (r *Request) SetValue(key, value any) {
	if r.ext == nil {
		r.ext = make(map[any]any)
	}
	r.ext[key] = value
}

// Value returns a value stored with SetValue, or nil.
func (r *Request) Value(key any) any {
	if r.ext == nil {
		return nil
	}
	return r.ext[key]
}

// SetState attaches the application-scoped state.
func (r *Request) SetState(state any) { r.state = state }

// State returns the application-scoped state shared by all handlers.
func (r *Request) State() any { return r.state }

// SetTrailers attaches the channel on which trailer headers are
// delivered once a chunked body reaches its terminal chunk.
func (r *Request) SetTrailers(ch <-chan *Header) { r.trailers = ch }

// Trailers returns the trailer channel, or nil for non-chunked bodies.
func (r *Request) Trailers() <-chan *Header { return r.trailers }

// SetRemoteAddr records the peer address of the underlying transport.
func (r *Request) SetRemoteAddr(addr string) { r.remoteAddr = addr }

// RemoteAddr returns the peer address, or "".
func (r *Request) RemoteAddr() string { return r.remoteAddr }

// SetLocalAddr records the local address of the underlying transport.
func (r *Request) SetLocalAddr(addr string) { r.localAddr = addr }

// LocalAddr returns the local address, or "".
func (r *Request) LocalAddr() string { return r.localAddr }
