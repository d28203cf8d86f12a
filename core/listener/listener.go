// Package listener provides the bound-socket abstractions the server
// accepts connections through: a single TCP listener, a concurrent
// multi-socket listener, and a failover listener that commits to the
// first address that binds.
package listener

import (
	"errors"
	"io"
	"net"

	"golang.org/x/sys/unix"
)

// ConnHandler is what a listener needs from the application: something
// that runs one accepted connection to completion.
type ConnHandler interface {
	HandleConn(conn net.Conn)
}

// Listener binds one or more sockets to an application and accepts
// connections for it. Bind must be called exactly once before Accept.
type Listener interface {
	Bind(app ConnHandler) error

	// Accept blocks driving the accept loop until the listener is
	// closed or a persistent error occurs.
	Accept() error

	// Info describes every bound socket, for logging.
	Info() []ListenInfo

	io.Closer
}

// ListenInfo describes one bound socket. It is produced once at bind
// time and never mutated.
type ListenInfo struct {
	connString string
	transport  string
	tls        bool
}

// NewListenInfo creates a ListenInfo.
func NewListenInfo(connString, transport string, tls bool) ListenInfo {
	return ListenInfo{connString: connString, transport: transport, tls: tls}
}

// Connection returns the connection string, e.g. "http://127.0.0.1:8080".
func (l ListenInfo) Connection() string { return l.connString }

// Transport returns the transport name, e.g. "tcp".
func (l ListenInfo) Transport() string { return l.transport }

// IsEncrypted reports whether the socket speaks TLS.
func (l ListenInfo) IsEncrypted() bool { return l.tls }

func (l ListenInfo) String() string { return l.connString }

// isTransientError reports whether an accept error only concerns the
// rejected connection. Transient errors need no backoff delay.
func isTransientError(err error) bool {
	return errors.Is(err, unix.ECONNREFUSED) ||
		errors.Is(err, unix.ECONNABORTED) ||
		errors.Is(err, unix.ECONNRESET)
}
