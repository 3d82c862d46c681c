package build

import (
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/datafiles"
	"git.home.luguber.info/inful/sitebuilder/internal/dates"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/formats"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
	"git.home.luguber.info/inful/sitebuilder/internal/scope"
)

// Filter decides whether an entry is built. It runs twice: structurally with
// a nil page before any data is loaded (rejecting a directory skips its
// subtree), and for file pages again with the fully merged page.
type Filter func(e *entry.Entry, p *page.Page) (bool, error)

// CatchAll gives a destination for files no format matched. Returning false
// drops the file.
type CatchAll func(p string) (dest string, ok bool)

// CopyRemaining is a CatchAll that mirrors every unmatched file.
func CopyRemaining(p string) (string, bool) { return p, true }

// Defaults for component side output and the data key of the accessor.
const (
	DefaultComponentsKey = "comp"
	DefaultCSSFile       = "/components.css"
	DefaultJSFile        = "/components.js"
)

type staticPath struct {
	dirOnly bool
	dest    string // "" mirrors the source path
	rename  func(string) string
}

// Session holds the configuration and per-build state of the walker.
// Builds on one session are serialized.
type Session struct {
	mu sync.Mutex

	pretty          bool
	componentsKey   string
	cssFile         string
	jsFile          string
	formats         *formats.Registry
	dataLoader      datafiles.Loader
	componentLoader components.Loader
	oracle          dates.Oracle
	recorder        metrics.Recorder
	logger          *slog.Logger
	now             func() time.Time
	catchAll        CatchAll
	scope           *scope.Registry

	ignored     map[string]struct{}
	ignoreFuncs []func(string) bool
	filters     []Filter
	static      map[string]staticPath

	// Snapshots of the last build.
	dataByPath map[string]data.Data
	side       *components.SideOutput
}

// NewSession creates a session with pretty urls, the default formats and the
// file based data and component loaders.
func NewSession() *Session {
	return &Session{
		pretty:          true,
		componentsKey:   DefaultComponentsKey,
		cssFile:         DefaultCSSFile,
		jsFile:          DefaultJSFile,
		formats:         formats.Default(),
		dataLoader:      datafiles.FileLoader{},
		componentLoader: components.FileLoader{},
		recorder:        metrics.NoopRecorder{},
		logger:          slog.Default(),
		now:             time.Now,
		scope:           scope.New(),
		ignored:         map[string]struct{}{},
		static:          map[string]staticPath{},
		dataByPath:      map[string]data.Data{},
		side:            components.NewSideOutput(),
	}
}

// WithPrettyURLs toggles directory-style urls.
func (s *Session) WithPrettyURLs(pretty bool) *Session {
	s.pretty = pretty
	return s
}

// WithComponents sets the data key of the component accessor and the output
// paths of the collected styles and scripts. Empty values keep the defaults.
func (s *Session) WithComponents(key, cssFile, jsFile string) *Session {
	if key != "" {
		s.componentsKey = key
	}
	if cssFile != "" {
		s.cssFile = cssFile
	}
	if jsFile != "" {
		s.jsFile = jsFile
	}
	return s
}

// WithFormats replaces the format registry.
func (s *Session) WithFormats(r *formats.Registry) *Session {
	s.formats = r
	return s
}

// Formats returns the format registry, for registering extra formats.
func (s *Session) Formats() *formats.Registry { return s.formats }

// WithDataLoader replaces the _data loader.
func (s *Session) WithDataLoader(l datafiles.Loader) *Session {
	s.dataLoader = l
	return s
}

// WithComponentLoader replaces the _components loader.
func (s *Session) WithComponentLoader(l components.Loader) *Session {
	s.componentLoader = l
	return s
}

// WithOracle enables version-control dates.
func (s *Session) WithOracle(o dates.Oracle) *Session {
	s.oracle = o
	return s
}

// WithRecorder sets the metrics recorder.
func (s *Session) WithRecorder(r metrics.Recorder) *Session {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithLogger sets the logger.
func (s *Session) WithLogger(l *slog.Logger) *Session {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithNow sets the clock used for injected pages and missing dates.
func (s *Session) WithNow(now func() time.Time) *Session {
	if now != nil {
		s.now = now
	}
	return s
}

// WithCatchAll sets the policy for files no format matched.
func (s *Session) WithCatchAll(fn CatchAll) *Session {
	s.catchAll = fn
	return s
}

// Scope returns the registry of per-path overrides.
func (s *Session) Scope() *scope.Registry { return s.scope }

// Ignore skips the given tree paths and everything below them.
func (s *Session) Ignore(paths ...string) *Session {
	for _, p := range paths {
		s.ignored[scope.Key(p)] = struct{}{}
	}
	return s
}

// IgnoreFunc skips every path for which fn returns true.
func (s *Session) IgnoreFunc(fn func(p string) bool) *Session {
	s.ignoreFuncs = append(s.ignoreFuncs, fn)
	return s
}

// AddFilter registers a build filter.
func (s *Session) AddFilter(f Filter) *Session {
	s.filters = append(s.filters, f)
	return s
}

// AddStaticPath copies from (a tree path) to the output path to, relative to
// the output root. An empty to mirrors the source structure. A from ending in
// "/" only matches a directory.
func (s *Session) AddStaticPath(from, to string) *Session {
	key, dirOnly := staticKey(from)
	s.static[key] = staticPath{dirOnly: dirOnly, dest: strings.Trim(to, "/")}
	return s
}

// AddStaticPathFunc copies from with destinations computed by rename, which
// receives the mirrored output path of every file.
func (s *Session) AddStaticPathFunc(from string, rename func(string) string) *Session {
	key, dirOnly := staticKey(from)
	s.static[key] = staticPath{dirOnly: dirOnly, rename: rename}
	return s
}

func staticKey(from string) (string, bool) {
	return scope.Key(from), strings.HasSuffix(from, "/")
}

// DataAt returns the directory data computed for a tree path in the last
// build.
func (s *Session) DataAt(p string) (data.Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dataByPath[scope.Key(p)]
	return d, ok
}

// ComponentAssets returns the style and script pages collected from the
// components accessed since the last build started.
func (s *Session) ComponentAssets() []*page.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side.Pages(s.cssFile, s.jsFile)
}

func (s *Session) isIgnored(e *entry.Entry) bool {
	if strings.HasPrefix(e.Name, ".") || strings.HasPrefix(e.Name, "_") {
		return true
	}
	if _, ok := s.ignored[e.Path]; ok {
		return true
	}
	for _, fn := range s.ignoreFuncs {
		if fn(e.Path) {
			return true
		}
	}
	return false
}

func outputPath(dir, name string) string {
	return path.Join(dir, name)
}
