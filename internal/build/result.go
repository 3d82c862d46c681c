package build

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

// Result contains the outcome of a build.
type Result struct {
	// BuildID identifies the build in logs and metrics.
	BuildID string

	// Pages in traversal order: injected pages of a directory come before its children.
	Pages []*page.Page

	// StaticFiles in traversal order.
	StaticFiles []*page.StaticFile

	// Directories is the count of visited directories.
	Directories int

	// Filtered is the count of entries and pages rejected by filters.
	Filtered int

	// Duration is the total build time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time
}

// PagesWithURL returns the pages that have an output url.
func (r *Result) PagesWithURL() []*page.Page {
	out := make([]*page.Page, 0, len(r.Pages))
	for _, p := range r.Pages {
		if _, ok := p.URL(); ok {
			out = append(out, p)
		}
	}
	return out
}
