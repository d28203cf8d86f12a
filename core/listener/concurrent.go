package listener

import "strings"

// ConcurrentListener drives several sub-listeners at once, letting one
// server accept on multiple sockets. A failure in one accept loop
// surfaces as the return value of Accept; the other loops keep running
// until the whole set is closed.
type ConcurrentListener struct {
	listeners []Listener
}

// NewConcurrent creates an empty concurrent listener.
func NewConcurrent() *ConcurrentListener {
	return &ConcurrentListener{}
}

// Add appends a sub-listener.
func (c *ConcurrentListener) Add(l Listener) *ConcurrentListener {
	c.listeners = append(c.listeners, l)
	return c
}

// Bind binds every sub-listener.
func (c *ConcurrentListener) Bind(app ConnHandler) error {
	for _, l := range c.listeners {
		if err := l.Bind(app); err != nil {
			return err
		}
	}
	return nil
}

// Accept runs every sub-listener's accept loop concurrently. It
// returns the first error any of them produces, or nil once all loops
// have ended cleanly.
func (c *ConcurrentListener) Accept() error {
	errs := make(chan error, len(c.listeners))
	for _, l := range c.listeners {
		go func(l Listener) {
			errs <- l.Accept()
		}(l)
	}

	for range c.listeners {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}

// Info concatenates the sub-listeners' infos.
func (c *ConcurrentListener) Info() []ListenInfo {
	var infos []ListenInfo
	for _, l := range c.listeners {
		infos = append(infos, l.Info()...)
	}
	return infos
}

// Close tears down every sub-listener.
func (c *ConcurrentListener) Close() error {
	var first error
	for _, l := range c.listeners {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *ConcurrentListener) String() string {
	parts := make([]string, 0, len(c.listeners))
	for _, l := range c.listeners {
		if s, ok := l.(interface{ String() string }); ok {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, ", ")
}
