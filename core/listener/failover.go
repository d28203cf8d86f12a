package listener

import (
	"errors"
	"log/slog"
)

// ErrNoListenerBound is returned when no candidate address could be
// bound, or when Accept is called without a successful Bind.
var ErrNoListenerBound = errors.New("listener: unable to bind any of the provided listeners")

// FailoverListener tries its candidates in order and commits to the
// first one that binds. Accept is single-use and only valid after a
// successful Bind.
type FailoverListener struct {
	listeners []Listener
	index     int
	bound     bool
	accepted  bool
	logger    *slog.Logger
}

// NewFailover creates an empty failover listener.
func NewFailover() *FailoverListener {
	return &FailoverListener{index: -1, logger: slog.Default()}
}

// SetLogger injects the logger used to report failed bind candidates.
func (f *FailoverListener) SetLogger(logger *slog.Logger) { f.logger = logger }

// Add appends a candidate.
func (f *FailoverListener) Add(l Listener) *FailoverListener {
	f.listeners = append(f.listeners, l)
	return f
}

// Bind commits to the first candidate that binds successfully,
// logging the candidates that failed. Calling Bind twice is a
// programming error.
func (f *FailoverListener) Bind(app ConnHandler) error {
	if f.bound {
		panic("listener: Bind called twice")
	}
	f.bound = true

	for i, l := range f.listeners {
		err := l.Bind(app)
		if err == nil {
			f.index = i
			return nil
		}
		f.logger.Info("failover candidate did not bind",
			"candidate", i, "error", err)
	}
	return ErrNoListenerBound
}

// Accept drives exactly the committed sub-listener. Calling it twice
// is a programming error.
func (f *FailoverListener) Accept() error {
	if f.index < 0 {
		return ErrNoListenerBound
	}
	if f.accepted {
		panic("listener: Accept called twice")
	}
	f.accepted = true
	return f.listeners[f.index].Accept()
}

// Info describes the committed sub-listener only.
func (f *FailoverListener) Info() []ListenInfo {
	if f.index < 0 {
		return nil
	}
	return f.listeners[f.index].Info()
}

// Close tears down the committed sub-listener.
func (f *FailoverListener) Close() error {
	if f.index < 0 {
		return nil
	}
	return f.listeners[f.index].Close()
}
