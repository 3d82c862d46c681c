// Package formats maps source file extensions to loaders and copy rules.
package formats

import (
	"context"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
)

// Loader parses one source file into page data.
type Loader interface {
	Load(ctx context.Context, e *entry.Entry) (data.Data, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, e *entry.Entry) (data.Data, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, e *entry.Entry) (data.Data, error) {
	return f(ctx, e)
}

// CopyRule describes a pass-through file. With neither Dest nor Rename set
// the file mirrors its source path.
type CopyRule struct {
	Dest   string
	Rename func(p string) string
}

// Format is a registered extension. A format has either a Loader or a Copy
// rule; Asset marks loaded pages served under their own extension.
type Format struct {
	Ext    string
	Loader Loader
	Copy   *CopyRule
	Asset  bool
}

// IsCopy reports whether matching files are copied rather than loaded.
func (f Format) IsCopy() bool { return f.Copy != nil && f.Loader == nil }

// Registry holds formats keyed by lowercase extension.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
	exts    []string // longest first
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: map[string]Format{}}
}

// Register adds f, replacing any format with the same extension.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext := strings.ToLower(f.Ext)
	f.Ext = ext
	if _, exists := r.formats[ext]; !exists {
		r.exts = append(r.exts, ext)
		sort.SliceStable(r.exts, func(i, j int) bool { return len(r.exts[i]) > len(r.exts[j]) })
	}
	r.formats[ext] = f
}

// Copy registers ext as a pass-through file that mirrors its source path.
func (r *Registry) Copy(ext string) {
	r.Register(Format{Ext: ext, Copy: &CopyRule{}})
}

// CopyTo registers ext as a pass-through file copied to dest.
func (r *Registry) CopyTo(ext, dest string) {
	r.Register(Format{Ext: ext, Copy: &CopyRule{Dest: dest}})
}

// Rename registers ext as a pass-through file whose destination is computed by rename.
func (r *Registry) Rename(ext string, rename func(string) string) {
	r.Register(Format{Ext: ext, Copy: &CopyRule{Rename: rename}})
}

// Search returns the format with the longest extension that matches the end
// of p, compared case-insensitively.
func (r *Registry) Search(p string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lower := strings.ToLower(p)
	for _, ext := range r.exts {
		if strings.HasSuffix(lower, ext) {
			return r.formats[ext], true
		}
	}
	return Format{}, false
}

// Extensions returns the registered extensions, longest first.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.exts...)
}
