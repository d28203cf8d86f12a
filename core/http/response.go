package http

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// Response is the typed response handed to the encoder. Exactly one
// body representation (bytes or stream) is active at any time.
type Response struct {
	Status int
	Header *Header

	bodyBytes  []byte
	bodyReader io.Reader
	bodyLen    int64 // -1 when unknown

	err     error
	upgrade func(io.ReadWriteCloser)
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{
		Status:  status,
		Header:  NewHeader(),
		bodyLen: 0,
	}
}

// Text builds a plain-text response.
func Text(status int, body string) *Response {
	res := NewResponse(status)
	res.Header.Set(HeaderContentType, "text/plain; charset=utf-8")
	res.SetBodyString(body)
	return res
}

// JSON builds an application/json response from v.
func JSON(status int, v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	res := NewResponse(status)
	res.Header.Set(HeaderContentType, "application/json; charset=utf-8")
	res.SetBodyBytes(b)
	return res, nil
}

// SetBodyBytes sets a buffered body with a known length.
func (r *Response) SetBodyBytes(b []byte) {
	r.bodyBytes = b
	r.bodyReader = nil
	r.bodyLen = int64(len(b))
}

// SetBodyString sets a buffered body from a string.
func (r *Response) SetBodyString(s string) {
	r.SetBodyBytes([]byte(s))
}

// SetBodyReader sets a streaming body. Pass length -1 when the length
// is not known upfront; the encoder then uses chunked transfer.
func (r *Response) SetBodyReader(reader io.Reader, length int64) {
	r.bodyBytes = nil
	r.bodyReader = reader
	r.bodyLen = length
}

// BodyLen returns the declared body length, or -1 when unknown.
func (r *Response) BodyLen() int64 { return r.bodyLen }

// TakeBody moves the body out of the response, leaving an empty body.
func (r *Response) TakeBody() io.Reader {
	var body io.Reader
	switch {
	case r.bodyReader != nil:
		body = r.bodyReader
	case r.bodyBytes != nil:
		body = bytes.NewReader(r.bodyBytes)
	default:
		body = strings.NewReader("")
	}
	r.bodyBytes = nil
	r.bodyReader = nil
	r.bodyLen = 0
	return body
}

// SetError captures the handler error that produced this response. The
// error never appears on the wire; it drives logging and metrics.
func (r *Response) SetError(err error) { r.err = err }

// Err returns the captured handler error, if any.
func (r *Response) Err() error { return r.err }

// OnUpgrade declares an upgrade payload: fn takes ownership of the raw
// stream once the protocol switch is negotiated.
func (r *Response) OnUpgrade(fn func(io.ReadWriteCloser)) { r.upgrade = fn }

// HasUpgrade reports whether an upgrade payload was declared.
func (r *Response) HasUpgrade() bool { return r.upgrade != nil }

// Upgrade hands the raw stream to the upgrade consumer.
func (r *Response) Upgrade(stream io.ReadWriteCloser) {
	if r.upgrade != nil {
		r.upgrade(stream)
	}
}
