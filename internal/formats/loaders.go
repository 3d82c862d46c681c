package formats

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// ReadFunc reads the raw content of an entry.
type ReadFunc func(ctx context.Context, e *entry.Entry) ([]byte, error)

func readOrDefault(read ReadFunc) ReadFunc {
	if read != nil {
		return read
	}
	return entry.ReadFile
}

// FrontMatterLoader reads front matter fields and stores the body under
// "content". It serves markdown and HTML pages.
func FrontMatterLoader(read ReadFunc) Loader {
	read = readOrDefault(read)
	return LoaderFunc(func(ctx context.Context, e *entry.Entry) (data.Data, error) {
		raw, err := read(ctx, e)
		if err != nil {
			return nil, err
		}
		fields, body, err := frontmatter.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("front matter of %s: %w", e.Path, err)
		}
		d := data.Data(fields)
		d[data.KeyContent] = string(body)
		return d, nil
	})
}

// TextLoader stores the raw file under "content".
func TextLoader(read ReadFunc) Loader {
	read = readOrDefault(read)
	return LoaderFunc(func(ctx context.Context, e *entry.Entry) (data.Data, error) {
		raw, err := read(ctx, e)
		if err != nil {
			return nil, err
		}
		return data.Data{data.KeyContent: string(raw)}, nil
	})
}

// YAMLLoader decodes a YAML (or JSON) document as the page data.
func YAMLLoader(read ReadFunc) Loader {
	read = readOrDefault(read)
	return LoaderFunc(func(ctx context.Context, e *entry.Entry) (data.Data, error) {
		raw, err := read(ctx, e)
		if err != nil {
			return nil, err
		}
		d := data.Data{}
		if err := yaml.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Path, err)
		}
		if d == nil {
			d = data.Data{}
		}
		return d, nil
	})
}

// Default returns the registry used by the CLI.
func Default() *Registry {
	r := NewRegistry()
	fm := FrontMatterLoader(nil)
	r.Register(Format{Ext: ".md", Loader: fm})
	r.Register(Format{Ext: ".html", Loader: fm})

	text := TextLoader(nil)
	r.Register(Format{Ext: ".css", Loader: text, Asset: true})
	r.Register(Format{Ext: ".js", Loader: text, Asset: true})

	yml := YAMLLoader(nil)
	for _, ext := range []string{".page.yml", ".page.yaml", ".page.json"} {
		r.Register(Format{Ext: ext, Loader: yml})
	}
	return r
}
