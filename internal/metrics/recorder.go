package metrics

import "time"

// OutcomeLabel enumerates final build outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// PageKind distinguishes pages loaded from files from injected pages.
type PageKind string

const (
	PageFile     PageKind = "file"
	PageInjected PageKind = "injected"
)

// FilterStage names where an entry was rejected.
type FilterStage string

const (
	FilterStructural   FilterStage = "structural"
	FilterContentAware FilterStage = "content"
)

// LookupResult labels version-control timestamp lookups.
type LookupResult string

const (
	LookupHit  LookupResult = "hit"
	LookupMiss LookupResult = "miss"
)

// Recorder defines observability hooks for a build.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
	IncDirectories()
	IncPages(kind PageKind)
	IncStaticFiles()
	IncFiltered(stage FilterStage)
	IncVCSLookup(result LookupResult)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)       {}
func (NoopRecorder) IncDirectories()                    {}
func (NoopRecorder) IncPages(PageKind)                  {}
func (NoopRecorder) IncStaticFiles()                    {}
func (NoopRecorder) IncFiltered(FilterStage)            {}
func (NoopRecorder) IncVCSLookup(LookupResult)          {}
