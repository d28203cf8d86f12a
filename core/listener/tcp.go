package listener

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sys/unix"
)

// acceptBackoff is slept after a persistent accept error so a broken
// socket cannot starve the process in a tight error loop.
const acceptBackoff = 500 * time.Millisecond

// TCPListener is the single-socket listener. It either binds an
// address or adopts a pre-bound net.Listener.
type TCPListener struct {
	addr string
	ln   net.Listener
	app  ConnHandler
	info *ListenInfo

	logger   *slog.Logger
	maxConns int
}

// Option configures a TCPListener.
type Option func(*TCPListener)

// WithLogger injects the logger used by the accept loop.
func WithLogger(logger *slog.Logger) Option {
	return func(t *TCPListener) { t.logger = logger }
}

// WithMaxConns caps the number of concurrently accepted connections.
func WithMaxConns(n int) Option {
	return func(t *TCPListener) { t.maxConns = n }
}

// TCP creates a listener that will bind addr.
func TCP(addr string, opts ...Option) *TCPListener {
	t := &TCPListener{addr: addr, logger: slog.Default()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// FromListener adopts a pre-bound socket.
func FromListener(ln net.Listener, opts ...Option) *TCPListener {
	t := &TCPListener{ln: ln, logger: slog.Default()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Bind attaches the application and opens the socket. Calling it twice
// is a programming error.
func (t *TCPListener) Bind(app ConnHandler) error {
	if t.app != nil {
		panic("listener: Bind called twice")
	}
	t.app = app

	if t.ln == nil {
		lc := net.ListenConfig{Control: reuseAddr}
		ln, err := lc.Listen(context.Background(), "tcp", t.addr)
		if err != nil {
			return err
		}
		t.ln = ln
	}
	if t.maxConns > 0 {
		t.ln = netutil.LimitListener(t.ln, t.maxConns)
	}

	info := NewListenInfo("http://"+t.ln.Addr().String(), "tcp", false)
	t.info = &info
	return nil
}

// Accept drives the accept loop. Each accepted stream gets its own
// goroutine running the connection handler to completion.
func (t *TCPListener) Accept() error {
	if t.app == nil || t.ln == nil {
		panic("listener: Bind must be called before Accept")
	}

	for {
		conn, err := t.ln.Accept()
		if err != nil {
			switch {
			case errors.Is(err, net.ErrClosed):
				return nil
			case isTransientError(err):
				continue
			default:
				t.logger.Error("accept failed, backing off",
					"error", err, "delay", acceptBackoff)
				time.Sleep(acceptBackoff)
				continue
			}
		}
		go func() {
			defer conn.Close()
			t.app.HandleConn(conn)
		}()
	}
}

// Info returns the bound socket's description, empty before Bind.
func (t *TCPListener) Info() []ListenInfo {
	if t.info == nil {
		return nil
	}
	return []ListenInfo{*t.info}
}

// Close tears down the socket, unblocking Accept.
func (t *TCPListener) Close() error {
	if t.ln == nil {
		return nil
	}
	return t.ln.Close()
}

func (t *TCPListener) String() string {
	switch {
	case t.ln != nil:
		return "http://" + t.ln.Addr().String()
	case t.addr != "":
		return t.addr
	default:
		return "unbound tcp listener"
	}
}

// reuseAddr sets SO_REUSEADDR before bind so restarts do not trip over
// sockets lingering in TIME_WAIT.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
