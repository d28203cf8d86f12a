package router

import (
	"fmt"
	"strings"

	"github.com/hotwell/breeze/core/http"
)

type segKind uint8

const (
	segStatic   segKind = iota // literal segment
	segParam                   // :name
	segCatchAll                // trailing * or *name
)

type segment struct {
	kind    segKind
	literal string // static: the literal; param/catchAll: the capture name
}

// pattern is one parsed route pattern: a sequence of literal and named
// segments, optionally ending in a single trailing wildcard.
type pattern struct {
	raw      string
	segments []segment
	catchAll bool
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func parsePattern(path string) (*pattern, error) {
	if path == "" || path[0] != '/' {
		return nil, fmt.Errorf("route pattern %q must begin with '/'", path)
	}

	p := &pattern{raw: path}
	parts := splitPath(path)
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("route pattern %q has an unnamed parameter", path)
			}
			p.segments = append(p.segments, segment{kind: segParam, literal: name})
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, fmt.Errorf("route pattern %q: wildcard must be the last segment", path)
			}
			p.segments = append(p.segments, segment{kind: segCatchAll, literal: part[1:]})
			p.catchAll = true
		default:
			p.segments = append(p.segments, segment{kind: segStatic, literal: part})
		}
	}
	return p, nil
}

// match tests path against the pattern, returning the captured
// parameters on success.
func (p *pattern) match(path string) (*http.Captures, bool) {
	parts := splitPath(path)
	caps := &http.Captures{}

	for i, seg := range p.segments {
		if seg.kind == segCatchAll {
			rest := strings.Join(parts[i:], "/")
			caps.SetWildcard(rest)
			if seg.literal != "" {
				caps.AddParam(seg.literal, rest)
			}
			return caps, true
		}

		if i >= len(parts) {
			return nil, false
		}

		switch seg.kind {
		case segStatic:
			if parts[i] != seg.literal {
				return nil, false
			}
		case segParam:
			if parts[i] == "" {
				return nil, false
			}
			caps.AddParam(seg.literal, parts[i])
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}
	return caps, true
}

// rank returns the specificity vector used to order competing matches:
// one element per segment, statics before params before wildcards.
func (p *pattern) rank() []uint8 {
	r := make([]uint8, len(p.segments))
	for i, seg := range p.segments {
		r[i] = uint8(seg.kind)
	}
	return r
}

// compareRank orders two specificity vectors. A missing element is the
// most specific of all, so an exact-length pattern beats one that only
// matched by spilling into its wildcard.
func compareRank(a, b []uint8) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) == len(b):
		return 0
	case len(a) < len(b):
		return -1
	default:
		return 1
	}
}
