package source

import (
	"fmt"
	"log/slog"

	"WineWindow/internal/ports"
)

// Registry keeps sources in the order they were registered.
type Registry struct {
	sources map[string]ports.WindowSource
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.WindowSource{}}
}

// NewDefaultRegistry registers every catalog source behind one fetcher.
func NewDefaultRegistry(fetcher ports.TextFetcher, logger *slog.Logger) *Registry {
	reg := NewRegistry()
	for _, spec := range Catalog() {
		var log *slog.Logger
		if logger != nil {
			log = logger.With("source", spec.ID)
		}
		reg.Register(NewAdapter(spec, fetcher, log))
	}
	return reg
}

// Register adds a source at the lowest priority, or replaces one in place.
func (r *Registry) Register(src ports.WindowSource) {
	if r.sources == nil {
		r.sources = map[string]ports.WindowSource{}
	}
	if _, exists := r.sources[src.Name()]; !exists {
		r.order = append(r.order, src.Name())
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.WindowSource, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// Names lists registered sources in priority order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Ordered returns the sources in priority order, leaving out disabled names.
func (r *Registry) Ordered(disabled ...string) []ports.WindowSource {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}

	out := make([]ports.WindowSource, 0, len(r.order))
	for _, name := range r.order {
		if skip[name] {
			continue
		}
		out = append(out, r.sources[name])
	}
	return out
}
