// Package render fills Page.Content after a build: markdown through goldmark,
// HTML pages through html/template with the component accessor bound as comp.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"maps"
	"strings"

	"github.com/spf13/cast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

// Renderer converts page content.
type Renderer struct {
	md            goldmark.Markdown
	componentsKey string
}

// New returns a renderer reading the component accessor from componentsKey.
func New(componentsKey string) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		componentsKey: componentsKey,
	}
}

// Render sets Content on every page. Pages that already carry content (such as
// component asset pages) are left alone.
func (r *Renderer) Render(ctx context.Context, pages []*page.Page) error {
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Content != "" {
			continue
		}
		out, err := r.page(p)
		if err != nil {
			return fmt.Errorf("render %s: %w", p.SourcePath(), err)
		}
		p.Content = out
	}
	slog.Debug("Rendered pages", logfields.Count(len(pages)))
	return nil
}

func (r *Renderer) page(p *page.Page) (string, error) {
	content := cast.ToString(p.Data[data.KeyContent])
	if p.Source.Asset {
		return content, nil
	}
	switch strings.ToLower(p.Source.Ext) {
	case ".md":
		return r.Markdown(content)
	case ".html":
		return r.Template(p, content)
	default:
		return content, nil
	}
}

// Markdown converts a markdown body to HTML.
func (r *Renderer) Markdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// KeyPage is the template-only key exposing the page itself. It is never
// stored in Page.Data.
const KeyPage = "page"

// Template executes body as an html/template. Dot is the page data plus the
// page under KeyPage, unless the data already defines that key.
func (r *Renderer) Template(p *page.Page, body string) (string, error) {
	acc, ok := p.Data[r.componentsKey].(*components.Accessor)
	if !ok {
		acc = components.NewAccessor(components.Registry{}, nil)
	}
	tpl, err := template.New(p.SourcePath()).Funcs(acc.FuncMap()).Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	dot := make(map[string]any, len(p.Data)+1)
	maps.Copy(dot, p.Data)
	if _, taken := dot[KeyPage]; !taken {
		dot[KeyPage] = p
	}
	if err := tpl.Execute(&buf, dot); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
