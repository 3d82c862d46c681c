package build

import (
	"context"
	"fmt"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/formats"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

// fakeData serves directory data by tree path.
type fakeData map[string]data.Data

func (f fakeData) Load(_ context.Context, dir *entry.Entry) (data.Data, error) {
	return f[dir.Path], nil
}

type failingData struct{ path string }

func (f failingData) Load(_ context.Context, dir *entry.Entry) (data.Data, error) {
	if dir.Path == f.path {
		return nil, fmt.Errorf("boom in %s", dir.Path)
	}
	return nil, nil
}

// fakeComponents serves _components registries by the path of their parent directory.
type fakeComponents map[string]components.Registry

func (f fakeComponents) Load(_ context.Context, dir *entry.Entry) (components.Registry, error) {
	parent := dir.Path[:len(dir.Path)-len("/"+components.DirName)]
	if parent == "" {
		parent = "/"
	}
	return f[parent], nil
}

// pageFormats registers .md as a loader returning content by path.
func pageFormats(content map[string]data.Data) *formats.Registry {
	r := formats.NewRegistry()
	r.Register(formats.Format{Ext: ".md", Loader: formats.LoaderFunc(func(_ context.Context, e *entry.Entry) (data.Data, error) {
		if d, ok := content[e.Path]; ok {
			return d.Clone(), nil
		}
		return data.Data{}, nil
	})})
	r.Register(formats.Format{Ext: ".css", Asset: true, Loader: formats.LoaderFunc(func(context.Context, *entry.Entry) (data.Data, error) {
		return data.Data{}, nil
	})})
	return r
}

func newTestSession(dirData fakeData, content map[string]data.Data) *Session {
	return NewSession().
		WithFormats(pageFormats(content)).
		WithDataLoader(dirData).
		WithComponentLoader(fakeComponents{}).
		WithNow(func() time.Time { return fixedNow })
}

func file(parent *entry.Entry, name string) *entry.Entry {
	return entry.NewFile(parent, name, entry.Meta{Src: "/src" + parent.Path + "/" + name})
}

// countingRecorder records metric calls.
type countingRecorder struct {
	mu       sync.Mutex
	pages    map[metrics.PageKind]int
	static   int
	dirs     int
	filtered map[metrics.FilterStage]int
	outcomes map[metrics.OutcomeLabel]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		pages:    map[metrics.PageKind]int{},
		filtered: map[metrics.FilterStage]int{},
		outcomes: map[metrics.OutcomeLabel]int{},
	}
}

func (r *countingRecorder) ObserveBuildDuration(time.Duration) {}
func (r *countingRecorder) IncVCSLookup(metrics.LookupResult)  {}
func (r *countingRecorder) IncBuildOutcome(o metrics.OutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[o]++
}
func (r *countingRecorder) IncDirectories() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirs++
}
func (r *countingRecorder) IncPages(k metrics.PageKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[k]++
}
func (r *countingRecorder) IncStaticFiles() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.static++
}
func (r *countingRecorder) IncFiltered(s metrics.FilterStage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filtered[s]++
}
