// Package http1 implements the HTTP/1.1 wire protocol in the server
// role: a streaming request decoder, a streaming response encoder with
// chunked transfer support, and the per-connection serve loop.
package http1

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/hotwell/breeze/core/http"
	"github.com/hotwell/breeze/core/pools"
)

const (
	maxHeaders    = 128
	maxHeadLength = 8 * 1024
)

var continueResponse = []byte("HTTP/1.1 100 Continue\r\n\r\n")

// Protocol errors. All of them are fatal to the connection: the caller
// closes the socket without crafting a response.
var (
	ErrHeadTooLarge       = errors.New("http1: request head exceeds 8 KiB")
	ErrTooManyHeaders     = errors.New("http1: more than 128 header fields")
	ErrMalformedHead      = errors.New("http1: malformed request head")
	ErrUnsupportedVersion = errors.New("http1: unsupported HTTP version")
	ErrMissingHost        = errors.New("http1: mandatory Host header missing")
)

// BodyReader is the wire-level view of a request body. The connection
// loop reads from it to drain unread body bytes after the response is
// written, keeping the stream framed for the next request.
type BodyReader struct {
	inner      io.Reader
	finished   chan struct{}
	finishOnce sync.Once
}

func (b *BodyReader) Read(p []byte) (int, error) {
	return b.inner.Read(p)
}

// Finish marks the request as handled. It releases the 100-continue
// waiter, if one was armed, without sending the interim response.
func (b *BodyReader) Finish() {
	b.finishOnce.Do(func() { close(b.finished) })
}

// readNotifier signals the first read attempt against the body on a
// one-shot channel, then defers to the wrapped reader. When the peer
// expects a 100-continue it also waits for the interim response to hit
// the wire before letting the read proceed.
type readNotifier struct {
	r        io.Reader
	notify   chan<- struct{}
	ack      <-chan struct{}
	finished <-chan struct{}
	notified bool
}

func (n *readNotifier) Read(p []byte) (int, error) {
	if !n.notified {
		n.notified = true
		select {
		case n.notify <- struct{}{}:
		default:
		}
		if n.ack != nil {
			select {
			case <-n.ack:
			case <-n.finished:
			}
		}
	}
	return n.r.Read(p)
}

// Decoder decodes successive requests from one bidirectional stream.
// The buffered reader is shared across requests so pipelined bytes are
// never dropped between keep-alive iterations.
type Decoder struct {
	br *bufio.Reader
	w  io.Writer
}

// NewDecoder creates a decoder over a bidirectional stream.
func NewDecoder(rw io.ReadWriter) *Decoder {
	return &Decoder{br: bufio.NewReaderSize(rw, 4096), w: rw}
}

// Decode reads one request head plus body framing. It returns
// (nil, nil, nil) when the peer closed the stream before sending any
// bytes, which the caller treats as a clean end of the connection.
func (d *Decoder) Decode() (*http.Request, *BodyReader, error) {
	head, err := d.readHead()
	if err != nil || head == nil {
		return nil, nil, err
	}
	defer pools.Put(head)

	req, err := parseHead(head)
	if err != nil {
		return nil, nil, err
	}

	contentLength := req.Header.Get(http.HeaderContentLength)
	transferEncoding := req.Header.Get(http.HeaderTransferEncoding)

	// Both headers present is a known request-smuggling vector.
	// https://tools.ietf.org/html/rfc7230#section-3.3.3
	if contentLength != "" && transferEncoding != "" {
		return nil, nil, http.Errorf(http.StatusBadRequest,
			"both Content-Length and Transfer-Encoding present")
	}

	var wireBody io.Reader
	switch {
	case strings.EqualFold(transferEncoding, "chunked"):
		trailers := make(chan *http.Header, 1)
		wireBody = newChunkedReader(d.br, trailers)
		req.SetTrailers(trailers)
	case contentLength != "":
		n, err := strconv.ParseInt(contentLength, 10, 64)
		if err != nil || n < 0 {
			return nil, nil, http.Errorf(http.StatusBadRequest,
				"invalid Content-Length %q", contentLength)
		}
		wireBody = io.LimitReader(d.br, n)
	default:
		wireBody = strings.NewReader("")
	}

	body := &BodyReader{inner: wireBody, finished: make(chan struct{})}

	notify := make(chan struct{}, 1)
	var ack chan struct{}
	if strings.EqualFold(req.Header.Get(http.HeaderExpect), "100-continue") {
		ack = make(chan struct{})
		go d.awaitFirstBodyRead(notify, ack, body.finished)
	}
	req.SetBody(&readNotifier{
		r:        wireBody,
		notify:   notify,
		ack:      ack,
		finished: body.finished,
	})

	return req, body, nil
}

// awaitFirstBodyRead writes the interim 100 Continue response as soon
// as the application touches the body. If the body is never read, the
// waiter exits silently when the request finishes.
func (d *Decoder) awaitFirstBodyRead(notify, ack, finished chan struct{}) {
	select {
	case <-notify:
		d.w.Write(continueResponse)
		close(ack)
	case <-finished:
	}
}

// readHead accumulates raw bytes line by line until CRLFCRLF, bounded
// by the 8 KiB head cap. A nil buffer with nil error means the peer
// closed before sending anything.
func (d *Decoder) readHead() ([]byte, error) {
	buf := pools.Get(maxHeadLength)
	for {
		line, err := d.br.ReadSlice('\n')
		buf = append(buf, line...)

		switch {
		case err == nil:
		case errors.Is(err, bufio.ErrBufferFull):
			// Long line, keep accumulating; the cap below still applies.
			if len(buf) >= maxHeadLength {
				pools.Put(buf)
				return nil, ErrHeadTooLarge
			}
			continue
		case errors.Is(err, io.EOF):
			empty := len(buf) == 0
			pools.Put(buf)
			if empty {
				return nil, nil
			}
			return nil, io.ErrUnexpectedEOF
		default:
			pools.Put(buf)
			return nil, err
		}

		if len(buf) >= maxHeadLength {
			pools.Put(buf)
			return nil, ErrHeadTooLarge
		}
		if len(buf) >= 4 && bytes.Equal(buf[len(buf)-4:], []byte("\r\n\r\n")) {
			return buf, nil
		}
	}
}

// parseHead turns the accumulated head bytes into a typed request.
func parseHead(head []byte) (*http.Request, error) {
	lines := strings.Split(string(head), "\r\n")
	if len(lines) < 2 {
		return nil, ErrMalformedHead
	}

	method, target, version, err := parseStartLine(lines[0])
	if err != nil {
		return nil, err
	}
	if version != "HTTP/1.1" {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedVersion, version)
	}

	header := http.NewHeader()
	count := 0
	for _, line := range lines[1:] {
		if line == "" {
			break
		}
		count++
		if count > maxHeaders {
			return nil, ErrTooManyHeaders
		}
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return nil, ErrMalformedHead
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if name == "" {
			return nil, ErrMalformedHead
		}
		header.Add(name, value)
	}

	u, err := resolveURL(method, target, header)
	if err != nil {
		return nil, err
	}

	req := http.NewRequest(method, u)
	req.Proto = version
	req.Header = header
	return req, nil
}

func parseStartLine(line string) (method, target, version string, err error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", ErrMalformedHead
	}
	if !http.ValidMethod(parts[0]) {
		return "", "", "", fmt.Errorf("%w: unknown method %q", ErrMalformedHead, parts[0])
	}
	return parts[0], parts[1], parts[2], nil
}

// resolveURL builds the absolute request URL from an absolute-form
// target, an origin-form target plus the mandatory Host header, or
// (for CONNECT) the authority form.
func resolveURL(method, target string, header *http.Header) (*url.URL, error) {
	switch {
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		return url.Parse(target)
	case strings.HasPrefix(target, "/"):
		host := header.Get(http.HeaderHost)
		if host == "" {
			return nil, ErrMissingHost
		}
		return url.Parse("http://" + host + target)
	case method == http.MethodConnect:
		return url.Parse("http://" + target + "/")
	default:
		return nil, fmt.Errorf("%w: unexpected target form %q", ErrMalformedHead, target)
	}
}
