package http1

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/hotwell/breeze/core/http"
)

var errMalformedChunk = errors.New("http1: malformed chunk framing")

// chunkedReader decodes a chunked transfer-coded body. Trailer headers
// discovered after the terminal chunk are delivered on the trailers
// channel, which is closed once the body is fully consumed.
type chunkedReader struct {
	br        *bufio.Reader
	trailers  chan<- *http.Header
	remaining int64
	done      bool
	err       error
}

func newChunkedReader(br *bufio.Reader, trailers chan<- *http.Header) *chunkedReader {
	return &chunkedReader{br: br, trailers: trailers}
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if c.remaining == 0 {
		size, err := c.readChunkSize()
		if err != nil {
			c.err = err
			return 0, err
		}
		if size == 0 {
			tr, err := c.readTrailers()
			if err != nil {
				c.err = err
				return 0, err
			}
			c.trailers <- tr
			close(c.trailers)
			c.done = true
			return 0, io.EOF
		}
		c.remaining = size
	}

	n := int64(len(p))
	if n > c.remaining {
		n = c.remaining
	}
	read, err := c.br.Read(p[:n])
	c.remaining -= int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		c.err = err
		return read, err
	}
	if c.remaining == 0 {
		if err := c.expectCRLF(); err != nil {
			c.err = err
			return read, err
		}
	}
	return read, nil
}

// readChunkSize parses a hex-length line, ignoring chunk extensions.
func (c *chunkedReader) readChunkSize() (int64, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	size, err := strconv.ParseInt(line, 16, 64)
	if err != nil || size < 0 {
		return 0, errMalformedChunk
	}
	return size, nil
}

// readTrailers consumes trailer fields up to the final blank line.
func (c *chunkedReader) readTrailers() (*http.Header, error) {
	tr := http.NewHeader()
	for {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return tr, nil
		}
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return nil, errMalformedChunk
		}
		tr.Add(strings.TrimSpace(line[:colon]), strings.TrimSpace(line[colon+1:]))
	}
}

func (c *chunkedReader) readLine() (string, error) {
	line, err := c.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

func (c *chunkedReader) expectCRLF() error {
	for _, want := range []byte("\r\n") {
		b, err := c.br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if b != want {
			return errMalformedChunk
		}
	}
	return nil
}
