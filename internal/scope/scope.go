// Package scope holds externally registered per-path overrides: data, pages
// to inject, and components. It is populated before a build and read during it.
package scope

import (
	"path"
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
)

// Registry maps tree paths to override values. Paths are normalized to start
// with "/" and carry no trailing slash.
type Registry struct {
	mu         sync.RWMutex
	data       map[string]data.Data
	pages      map[string][]data.Data
	components map[string]components.Registry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		data:       map[string]data.Data{},
		pages:      map[string][]data.Data{},
		components: map[string]components.Registry{},
	}
}

// Key normalizes a tree path.
func Key(p string) string {
	return path.Clean("/" + strings.TrimSpace(p))
}

// SetData merges d into the data registered at p.
func (r *Registry) SetData(p string, d data.Data) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := Key(p)
	r.data[k] = data.Merge(r.data[k], d)
}

// Data returns the data registered at p.
func (r *Registry) Data(p string) (data.Data, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.data[Key(p)]
	return d, ok
}

// AddPages appends pages to inject at directory p.
func (r *Registry) AddPages(p string, pages ...data.Data) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := Key(p)
	r.pages[k] = append(r.pages[k], pages...)
}

// Pages returns the pages injected at p, in registration order.
func (r *Registry) Pages(p string) []data.Data {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]data.Data(nil), r.pages[Key(p)]...)
}

// SetComponents merges reg into the components registered at p.
func (r *Registry) SetComponents(p string, reg components.Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := Key(p)
	r.components[k] = components.Merge(r.components[k], reg)
}

// Components returns the components registered at p.
func (r *Registry) Components(p string) (components.Registry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[Key(p)]
	return c, ok
}
