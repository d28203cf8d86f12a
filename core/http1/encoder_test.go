package http1

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	stdhttp "net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwell/breeze/core/http"
)

func encode(t *testing.T, res *http.Response, method string) []byte {
	t.Helper()
	raw, err := io.ReadAll(NewEncoder(res, method))
	require.NoError(t, err)
	return raw
}

func parseResponse(t *testing.T, raw []byte, method string) *stdhttp.Response {
	t.Helper()
	parsed, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(raw)),
		&stdhttp.Request{Method: method})
	require.NoError(t, err)
	return parsed
}

// TestEncodeBufferedBody tests Content-Length framing and Date
// synthesis for a buffered body.
func TestEncodeBufferedBody(t *testing.T) {
	res := http.Text(http.StatusOK, "Hello, World!")
	raw := encode(t, res, http.MethodGet)

	assert.True(t, bytes.HasPrefix(raw, []byte("HTTP/1.1 200 OK\r\n")))

	parsed := parseResponse(t, raw, http.MethodGet)
	defer parsed.Body.Close()

	assert.Equal(t, "13", parsed.Header.Get("Content-Length"))
	date, err := time.Parse(httpDateFormat, parsed.Header.Get("Date"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), date, time.Minute)

	body, err := io.ReadAll(parsed.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(body))
}

// TestEncodeSortedHeaders tests that header fields are serialized in
// lexicographic order.
func TestEncodeSortedHeaders(t *testing.T) {
	res := http.NewResponse(http.StatusNoContent)
	res.Header.Set("X-Zeta", "z")
	res.Header.Set("Accept-Ranges", "bytes")
	res.Header.Set("Server", "breeze")

	raw := encode(t, res, http.MethodGet)
	head := strings.Split(strings.TrimSuffix(string(raw), "\r\n\r\n"), "\r\n")

	var names []string
	for _, line := range head[1:] {
		names = append(names, strings.SplitN(line, ":", 2)[0])
	}
	assert.True(t, sort.StringsAreSorted(names), "header order %v", names)
}

// TestEncodeHeadOmitsBody tests that a HEAD response carries the
// framing headers but no body bytes.
func TestEncodeHeadOmitsBody(t *testing.T) {
	res := http.Text(http.StatusOK, "invisible")
	raw := encode(t, res, http.MethodHead)

	assert.True(t, bytes.HasSuffix(raw, []byte("\r\n\r\n")))
	assert.Contains(t, string(raw), "Content-Length: 9\r\n")
	assert.NotContains(t, string(raw), "invisible")
}

// TestEncodeChunkedBody tests that a body of unknown length is sent
// with chunked transfer coding the standard library can parse back.
func TestEncodeChunkedBody(t *testing.T) {
	res := http.NewResponse(http.StatusOK)
	res.SetBodyReader(strings.NewReader("streamed payload"), -1)

	raw := encode(t, res, http.MethodGet)
	assert.Contains(t, string(raw), "Transfer-Encoding: chunked\r\n")
	assert.NotContains(t, string(raw), "Content-Length")

	parsed := parseResponse(t, raw, http.MethodGet)
	defer parsed.Body.Close()
	body, err := io.ReadAll(parsed.Body)
	require.NoError(t, err)
	assert.Equal(t, "streamed payload", string(body))
}

// TestEncodeDateNotOverwritten tests that a handler-set Date survives.
func TestEncodeDateNotOverwritten(t *testing.T) {
	res := http.NewResponse(http.StatusOK)
	res.Header.Set(http.HeaderDate, "Mon, 02 Jan 2006 15:04:05 GMT")

	raw := encode(t, res, http.MethodGet)
	assert.Contains(t, string(raw), "Date: Mon, 02 Jan 2006 15:04:05 GMT\r\n")
}

// TestEncodeDrainIdempotent tests that reading past the end yields EOF
// forever.
func TestEncodeDrainIdempotent(t *testing.T) {
	enc := NewEncoder(http.Text(http.StatusOK, "x"), http.MethodGet)
	_, err := io.ReadAll(enc)
	require.NoError(t, err)

	buf := make([]byte, 16)
	for i := 0; i < 3; i++ {
		n, err := enc.Read(buf)
		assert.Zero(t, n)
		assert.ErrorIs(t, err, io.EOF)
	}
}

// TestChunkedEncoderBufferTooSmall tests the minimum buffer rule.
func TestChunkedEncoderBufferTooSmall(t *testing.T) {
	enc := &chunkedEncoder{r: strings.NewReader("abc")}
	_, err := enc.Read(make([]byte, 5))
	assert.ErrorIs(t, err, ErrChunkBufferTooSmall)
}

// TestChunkedEncoderRoundTrip tests that encoded output decodes back
// to the payload for buffer sizes around the hex-width boundaries.
func TestChunkedEncoderRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 200)

	sizes := []int{6, 7, 8, 9, 10, 15, 16, 17, 20, 21, 22, 63, 64, 65, 66, 67,
		126, 127, 128, 129, 130, 254, 255, 256, 257, 258, 510, 511, 512, 513, 514, 1024}
	for _, size := range sizes {
		t.Run(fmt.Sprintf("buf-%d", size), func(t *testing.T) {
			enc := &chunkedEncoder{r: bytes.NewReader(payload)}
			var out bytes.Buffer
			buf := make([]byte, size)
			for {
				n, err := enc.Read(buf)
				require.LessOrEqual(t, n, size)
				out.Write(buf[:n])
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
			}

			trailers := make(chan *http.Header, 1)
			dec := newChunkedReader(bufio.NewReader(&out), trailers)
			got, err := io.ReadAll(dec)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

// TestMaxBytesToRead tests that the framing always fits the buffer and
// never wastes more than the hex prefix requires.
func TestMaxBytesToRead(t *testing.T) {
	for bufLen := 6; bufLen <= 4096; bufLen++ {
		n := maxBytesToRead(bufLen)
		require.GreaterOrEqual(t, n, 1, "bufLen %d", bufLen)

		framing := len(fmt.Sprintf("%X\r\n", n)) + 2
		require.LessOrEqual(t, n+framing, bufLen, "bufLen %d reads %d", bufLen, n)
	}
}
