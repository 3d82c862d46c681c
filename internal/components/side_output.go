package components

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

// SideOutput collects the generated style and script text of every component
// accessed during a build. Recording the same component twice overwrites.
type SideOutput struct {
	styles  snippets
	scripts snippets
}

// NewSideOutput returns an empty collection.
func NewSideOutput() *SideOutput {
	return &SideOutput{}
}

type snippets struct {
	order []string
	text  map[string]string
}

func (s *snippets) set(name, text string) {
	if s.text == nil {
		s.text = map[string]string{}
	}
	if _, ok := s.text[name]; !ok {
		s.order = append(s.order, name)
	}
	s.text[name] = text
}

func (s *snippets) join() string {
	parts := make([]string, 0, len(s.order))
	for _, name := range s.order {
		parts = append(parts, s.text[name])
	}
	return strings.Join(parts, "\n")
}

func (o *SideOutput) record(name string, c *Component) {
	if c.CSS != "" {
		o.styles.set(name, c.CSS)
	}
	if c.JS != "" {
		o.scripts.set(name, c.JS)
	}
}

// Styles returns the names of components that recorded style text, in order.
func (o *SideOutput) Styles() []string { return append([]string(nil), o.styles.order...) }

// Scripts returns the names of components that recorded script text, in order.
func (o *SideOutput) Scripts() []string { return append([]string(nil), o.scripts.order...) }

// Pages returns one asset page per non-empty collection, served at cssFile and
// jsFile respectively.
func (o *SideOutput) Pages(cssFile, jsFile string) []*page.Page {
	var pages []*page.Page
	if len(o.styles.order) > 0 {
		pages = append(pages, assetPage(cssFile, o.styles.join()))
	}
	if len(o.scripts.order) > 0 {
		pages = append(pages, assetPage(jsFile, o.scripts.join()))
	}
	return pages
}

func assetPage(url, content string) *page.Page {
	ext := path.Ext(url)
	return &page.Page{
		Source: page.Source{
			Path:  strings.TrimSuffix(url, ext),
			Slug:  strings.TrimSuffix(path.Base(url), ext),
			Ext:   ext,
			Asset: true,
		},
		Data: data.Data{
			data.KeyURL:     url,
			data.KeyContent: content,
		},
		Content: content,
	}
}
