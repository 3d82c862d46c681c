// Package page defines the records produced by the build walker.
package page

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
)

// Source describes where a page came from. Injected pages have a zero Source.
type Source struct {
	Path         string // Entry path without the format extension
	Slug         string // File name without extension and date prefix
	Ext          string
	Asset        bool // Passed through under Ext instead of rendered to HTML
	Created      time.Time
	LastModified time.Time
	Remote       string // Source locator when the entry is flagged remote
	Entry        *entry.Entry
}

// Page is one output page. Data holds the fully merged cascade, including the
// resolved "url" (string, or false when suppressed) and "date" (time.Time).
type Page struct {
	Source  Source
	Data    data.Data
	Content string
}

// URLFunc computes a page url at resolution time. It may return a string or
// false; any other result is rejected.
type URLFunc func(p *Page) any

// URL returns the resolved url; ok is false when the page has no url.
func (p *Page) URL() (string, bool) {
	u, ok := p.Data[data.KeyURL].(string)
	return u, ok
}

// Date returns the resolved page date.
func (p *Page) Date() time.Time {
	d, _ := p.Data[data.KeyDate].(time.Time)
	return d
}

// SourcePath returns the original entry path, or "" for injected pages.
func (p *Page) SourcePath() string {
	if p.Source.Entry == nil {
		return ""
	}
	return p.Source.Entry.Path
}

// StaticFile is a copy instruction. Dest is relative to the output root.
type StaticFile struct {
	Entry *entry.Entry
	Dest  string
}
