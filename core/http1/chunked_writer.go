package http1

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrChunkBufferTooSmall is returned for read buffers below 6 bytes:
// no chunk framing ("1\r\n" + one data byte + "\r\n") fits below that.
var ErrChunkBufferTooSmall = errors.New("http1: chunk encoding needs a buffer of at least 6 bytes")

// chunkedEncoder wraps each read of the underlying body as a
// hex-length-prefixed chunk. A zero-length underlying read emits the
// terminal chunk and ends the stream.
type chunkedEncoder struct {
	r       io.Reader
	srcDone bool
	done    bool
}

func (c *chunkedEncoder) Read(p []byte) (int, error) {
	if c.done {
		return 0, io.EOF
	}
	if len(p) < 6 {
		return 0, ErrChunkBufferTooSmall
	}

	var n int
	if !c.srcDone {
		max := maxBytesToRead(len(p))
		var err error
		n, err = c.r.Read(p[:max])
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return 0, err
			}
			c.srcDone = true
		}
	}
	if n == 0 {
		c.done = true
	}

	prefix := fmt.Sprintf("%X\r\n", n)
	pl := len(prefix)
	total := n + pl + 2
	copy(p[pl:pl+n], p[:n])
	copy(p[:pl], prefix)
	copy(p[total-2:total], "\r\n")
	return total, nil
}

// maxBytesToRead caps the underlying read so the hex-length prefix,
// its CRLF, and the trailing CRLF always fit the caller's buffer.
func maxBytesToRead(bufLen int) int {
	usable := float64(bufLen - 4)
	hexFraming := math.Ceil(math.Log2(usable) / 4)
	return int(usable - hexFraming)
}
