package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitebuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	directories   prom.Counter
	pages         *prom.CounterVec
	staticFiles   prom.Counter
	filtered      *prom.CounterVec
	vcsLookups    *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build walk duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		directories: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directories_visited_total",
			Help:      "Directories descended by the build walker",
		}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Pages produced by kind",
		}, []string{"kind"}),
		staticFiles: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "static_files_total",
			Help:      "Static file copy instructions produced",
		}),
		filtered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "filtered_entries_total",
			Help:      "Entries rejected by build filters",
		}, []string{"stage"}),
		vcsLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "vcs_lookups_total",
			Help:      "Version-control timestamp lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.directories, pr.pages, pr.staticFiles, pr.filtered, pr.vcsLookups)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDirectories() { p.directories.Inc() }

func (p *PrometheusRecorder) IncPages(kind PageKind) {
	p.pages.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncStaticFiles() { p.staticFiles.Inc() }

func (p *PrometheusRecorder) IncFiltered(stage FilterStage) {
	p.filtered.WithLabelValues(string(stage)).Inc()
}

func (p *PrometheusRecorder) IncVCSLookup(result LookupResult) {
	p.vcsLookups.WithLabelValues(string(result)).Inc()
}
