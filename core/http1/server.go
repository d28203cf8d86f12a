package http1

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/hotwell/breeze/core/http"
)

// Handler is the application boundary of the connection loop: it turns
// one decoded request into a response.
type Handler func(req *http.Request) (*http.Response, error)

// ServeOptions configures one connection's serve loop.
type ServeOptions struct {
	// HeadersTimeout bounds reading a request head. Exceeding it
	// closes the connection without producing a response. Zero
	// disables the timeout. Defaults to 60 seconds.
	HeadersTimeout time.Duration

	Logger *slog.Logger
}

// DefaultServeOptions returns the default connection options.
func DefaultServeOptions() ServeOptions {
	return ServeOptions{HeadersTimeout: 60 * time.Second}
}

// connStatus says whether the server may accept another request on
// this connection.
type connStatus uint8

const (
	statusClose connStatus = iota
	statusKeepAlive
)

// Serve runs the HTTP/1.1 connection loop: decode one request, hand it
// to the handler, encode the response, drain the unread body, then
// keep the connection alive or close it. Keep-alive is the default.
func Serve(conn net.Conn, handler Handler, opts ServeOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &server{
		conn:    conn,
		decoder: NewDecoder(conn),
		handler: handler,
		opts:    opts,
	}
	for {
		status, err := s.acceptOne()
		if err != nil {
			return err
		}
		if status == statusClose {
			return nil
		}
	}
}

type server struct {
	conn    net.Conn
	decoder *Decoder
	handler Handler
	opts    ServeOptions
}

func (s *server) acceptOne() (connStatus, error) {
	if s.opts.HeadersTimeout > 0 {
		s.conn.SetReadDeadline(time.Now().Add(s.opts.HeadersTimeout))
	}

	req, body, err := s.decoder.Decode()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			// Slow peers get no response, just a closed socket.
			return statusClose, nil
		}
		return statusClose, err
	}
	if req == nil {
		// EOF before any bytes.
		return statusClose, nil
	}
	if s.opts.HeadersTimeout > 0 {
		s.conn.SetReadDeadline(time.Time{})
	}

	req.SetRemoteAddr(s.conn.RemoteAddr().String())
	req.SetLocalAddr(s.conn.LocalAddr().String())

	upgradeRequested := req.Header.Has(http.HeaderUpgrade) &&
		connectionHasToken(req.Header.Get(http.HeaderConnection), "upgrade")
	closeConn := strings.EqualFold(req.Header.Get(http.HeaderConnection), "close")
	method := req.Method

	res, err := s.handler(req)
	if err != nil {
		body.Finish()
		return statusClose, err
	}

	if strings.EqualFold(res.Header.Get(http.HeaderConnection), "close") {
		closeConn = true
	}
	upgradeProvided := res.Status == http.StatusSwitchingProtocols && res.HasUpgrade()

	encoder := NewEncoder(res, method)
	body.Finish()

	written, err := io.Copy(s.conn, encoder)
	if err != nil {
		return statusClose, err
	}
	s.opts.Logger.Debug("wrote response", "bytes", written)

	discarded, err := io.Copy(io.Discard, body)
	if err != nil {
		return statusClose, err
	}
	if discarded > 0 {
		s.opts.Logger.Debug("discarded unread request body", "bytes", discarded)
	}

	switch {
	case upgradeRequested && upgradeProvided:
		res.Upgrade(&upgradeStream{decoder: s.decoder, conn: s.conn})
		return statusClose, nil
	case closeConn:
		return statusClose, nil
	default:
		return statusKeepAlive, nil
	}
}

// connectionHasToken tokenizes a Connection header value on commas and
// looks for token, case-insensitively.
func connectionHasToken(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

// upgradeStream is the raw stream handed to an upgrade consumer. Reads
// go through the decoder's buffer so bytes the peer sent right behind
// the upgrade request are not lost.
type upgradeStream struct {
	decoder *Decoder
	conn    net.Conn
}

func (u *upgradeStream) Read(p []byte) (int, error)  { return u.decoder.br.Read(p) }
func (u *upgradeStream) Write(p []byte) (int, error) { return u.conn.Write(p) }
func (u *upgradeStream) Close() error                { return u.conn.Close() }
