package http1

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/hotwell/breeze/core/http"
)

const httpDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// encoderState drives the encoder's read loop. Transitions are
// strictly forward: Start -> Head -> Body -> End.
type encoderState uint8

const (
	stateStart encoderState = iota
	stateHead
	stateBody
	stateEnd
)

// Encoder serializes one response as a lazily-read byte stream: status
// line, lexicographically sorted header block, blank line, body. No
// body bytes are emitted when the request method was HEAD.
type Encoder struct {
	res    *http.Response
	method string

	state      encoderState
	head       *bytebufferpool.ByteBuffer
	headOffset int
	chunked    bool
	body       io.Reader
}

// NewEncoder creates an encoder for res; method is the request method
// the response answers.
func NewEncoder(res *http.Response, method string) *Encoder {
	return &Encoder{res: res, method: method}
}

func (e *Encoder) Read(p []byte) (int, error) {
	for {
		switch e.state {
		case stateStart:
			e.computeHead()
			e.state = stateHead

		case stateHead:
			if e.headOffset < e.head.Len() {
				n := copy(p, e.head.B[e.headOffset:])
				e.headOffset += n
				return n, nil
			}
			bytebufferpool.Put(e.head)
			e.head = nil
			if e.method == http.MethodHead {
				e.state = stateEnd
				continue
			}
			body := e.res.TakeBody()
			if e.chunked {
				body = &chunkedEncoder{r: body}
			}
			e.body = body
			e.state = stateBody

		case stateBody:
			n, err := e.body.Read(p)
			if err == io.EOF {
				e.state = stateEnd
				if n > 0 {
					return n, nil
				}
				continue
			}
			if n == 0 && err == nil {
				continue
			}
			return n, err

		case stateEnd:
			// Idempotent drain: reading past End yields EOF forever.
			return 0, io.EOF
		}
	}
}

// finalizeHeaders applies the framing and Date rules exactly once,
// before any bytes are emitted.
func (e *Encoder) finalizeHeaders() {
	if l := e.res.BodyLen(); l >= 0 {
		e.res.Header.Set(http.HeaderContentLength, strconv.FormatInt(l, 10))
	} else {
		e.chunked = true
		e.res.Header.Set(http.HeaderTransferEncoding, "chunked")
	}
	if !e.res.Header.Has(http.HeaderDate) {
		e.res.Header.Set(http.HeaderDate, time.Now().UTC().Format(httpDateFormat))
	}
}

func (e *Encoder) computeHead() {
	bb := bytebufferpool.Get()
	fmt.Fprintf(bb, "HTTP/1.1 %d %s\r\n", e.res.Status, http.StatusText(e.res.Status))

	e.finalizeHeaders()
	for _, key := range e.res.Header.SortedKeys() {
		for _, value := range e.res.Header.Values(key) {
			fmt.Fprintf(bb, "%s: %s\r\n", key, value)
		}
	}
	bb.WriteString("\r\n")
	e.head = bb
	e.headOffset = 0
}
