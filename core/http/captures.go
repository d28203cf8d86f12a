package http

type capture struct {
	name  string
	value string
}

// Captures holds the path parameters produced by matching one route
// pattern: zero or more named captures plus an optional trailing
// wildcard remainder.
type Captures struct {
	params   []capture
	wildcard *string
}

// AddParam records a named capture.
func (c *Captures) AddParam(name, value string) {
	c.params = append(c.params, capture{name: name, value: value})
}

// SetWildcard records the remainder matched by a trailing wildcard.
func (c *Captures) SetWildcard(rest string) {
	c.wildcard = &rest
}

// Get returns the value captured under name.
func (c *Captures) Get(name string) (string, bool) {
	for _, p := range c.params {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

// Wildcard returns the trailing-wildcard remainder, if one was captured.
func (c *Captures) Wildcard() (string, bool) {
	if c.wildcard == nil {
		return "", false
	}
	return *c.wildcard, true
}

// Len returns the number of named captures.
func (c *Captures) Len() int { return len(c.params) }
