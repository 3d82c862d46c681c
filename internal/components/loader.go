package components

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// DirName is the reserved directory holding a directory's components.
const DirName = "_components"

// Loader turns a _components directory into a Registry.
type Loader interface {
	Load(ctx context.Context, dir *entry.Entry) (Registry, error)
}

// FileLoader loads .html and .tmpl component files. <style> and <script>
// element text becomes the component CSS and JS; the rest of the file is an
// html/template body executed with the props. Subdirectories become nested
// registries.
type FileLoader struct {
	// ReadFile defaults to entry.ReadFile.
	ReadFile func(ctx context.Context, e *entry.Entry) ([]byte, error)
}

var componentExts = []string{".html", ".tmpl"}

// Load implements Loader.
func (l FileLoader) Load(ctx context.Context, dir *entry.Entry) (Registry, error) {
	reg := Registry{}
	for _, child := range dir.Children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.HasPrefix(child.Name, ".") {
			continue
		}
		if child.IsDir() {
			nested, err := l.Load(ctx, child)
			if err != nil {
				return nil, err
			}
			reg[strings.ToLower(child.Name)] = nested
			continue
		}

		ext := strings.ToLower(path.Ext(child.Name))
		if !isComponentExt(ext) {
			continue
		}
		src, err := l.read(ctx, child)
		if err != nil {
			return nil, loadError(child, err)
		}
		name := strings.ToLower(strings.TrimSuffix(child.Name, path.Ext(child.Name)))
		c, err := Parse(name, src)
		if err != nil {
			return nil, loadError(child, err)
		}
		reg[name] = c
	}
	return reg, nil
}

func (l FileLoader) read(ctx context.Context, e *entry.Entry) ([]byte, error) {
	if l.ReadFile != nil {
		return l.ReadFile(ctx, e)
	}
	return entry.ReadFile(ctx, e)
}

func isComponentExt(ext string) bool {
	for _, e := range componentExts {
		if e == ext {
			return true
		}
	}
	return false
}

func loadError(e *entry.Entry, err error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", berrors.ErrLoadFailed, err), ferrors.CategoryComponent, "failed to load component").
		Fatal().
		WithContext("path", e.Path).
		Build()
}

// Parse builds a component from source text.
func Parse(name string, src []byte) (*Component, error) {
	body, css, js, err := split(src)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse component template: %w", err)
	}
	return &Component{
		Name: name,
		CSS:  css,
		JS:   js,
		Render: func(props map[string]any) (string, error) {
			if props == nil {
				props = map[string]any{}
			}
			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, props); err != nil {
				return "", fmt.Errorf("render component %s: %w", name, err)
			}
			return strings.TrimSpace(buf.String()), nil
		},
	}, nil
}

// split copies every token of src verbatim except <style> and <script>
// elements, whose text is returned separately.
func split(src []byte) (body, css, js string, err error) {
	var out, styles, scripts strings.Builder
	var capture *strings.Builder
	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		raw := string(z.Raw())
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return strings.TrimSpace(out.String()), collect(&styles), collect(&scripts), nil
			}
			return "", "", "", z.Err()
		case html.StartTagToken:
			switch tagAtom(z) {
			case atom.Style:
				capture = &styles
				continue
			case atom.Script:
				capture = &scripts
				continue
			}
		case html.EndTagToken:
			if a := tagAtom(z); capture != nil && (a == atom.Style || a == atom.Script) {
				capture.WriteString("\n")
				capture = nil
				continue
			}
		case html.TextToken:
			if capture != nil {
				capture.WriteString(strings.TrimSpace(raw))
				continue
			}
		}
		out.WriteString(raw)
	}
}

func tagAtom(z *html.Tokenizer) atom.Atom {
	name, _ := z.TagName()
	return atom.Lookup(name)
}

func collect(b *strings.Builder) string {
	return strings.TrimSpace(b.String())
}
