package scraper

import "strings"

// Registry holds handlers by name and matches URLs against them in
// registration order.
type Registry struct {
	byName map[string]Handler
	order  []Handler
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Handler{}}
}

// Register adds h, replacing any handler with the same name in place.
func (r *Registry) Register(h Handler) {
	name := strings.ToLower(h.Name())
	if old, ok := r.byName[name]; ok {
		for i := range r.order {
			if r.order[i] == old {
				r.order[i] = h
			}
		}
	} else {
		r.order = append(r.order, h)
	}
	r.byName[name] = h
}

func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.byName[strings.ToLower(name)]
	return h, ok
}

// Lookup returns the first handler that accepts url.
func (r *Registry) Lookup(url string) (Handler, bool) {
	for _, h := range r.order {
		if h.Match(url) {
			return h, true
		}
	}
	return nil, false
}
