// Package urls resolves the output url of a page.
package urls

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

// Resolve computes the url of p, which lives in the directory whose output path
// is dirPath. ok is false when the page explicitly has no url (url = false).
//
// A url function sees the default url in p.Data["url"] while it runs.
func Resolve(p *page.Page, dirPath string, pretty bool) (u string, ok bool, err error) {
	value := p.Data[data.KeyURL]

	if fn, isFunc := asFunc(value); isFunc {
		p.Data[data.KeyURL] = Normalize(defaultURL(p, dirPath, pretty))
		value = fn(p)
	}

	switch v := value.(type) {
	case nil:
		return Normalize(defaultURL(p, dirPath, pretty)), true, nil
	case bool:
		if !v {
			return "", false, nil
		}
	case string:
		switch {
		case strings.HasPrefix(v, "./"), strings.HasPrefix(v, "../"):
			return Normalize(join(dirPath, v)), true, nil
		case strings.HasPrefix(v, "/"):
			return Normalize(v), true, nil
		}
		return "", false, invalid(p, v, `the url variable must start with "/", "./" or "../"`)
	}
	return "", false, invalid(p, value, "the url variable must be a string, false or a function")
}

// Normalize percent-encodes the path (after NFC normalisation) and collapses a
// trailing /index.html to /.
func Normalize(p string) string {
	escaped := (&url.URL{Path: norm.NFC.String(p)}).EscapedPath()
	if strings.HasSuffix(escaped, "/index.html") {
		return strings.TrimSuffix(escaped, "index.html")
	}
	return escaped
}

func defaultURL(p *page.Page, dirPath string, pretty bool) string {
	u := path.Join(dirPath, p.Source.Slug)
	switch {
	case p.Source.Asset:
		return u + p.Source.Ext
	case !pretty:
		return u + ".html"
	case path.Base(u) == "index":
		return withSlash(path.Dir(u))
	default:
		return withSlash(u)
	}
}

func asFunc(v any) (page.URLFunc, bool) {
	switch fn := v.(type) {
	case page.URLFunc:
		return fn, fn != nil
	case func(*page.Page) any:
		return fn, fn != nil
	case func(*page.Page) string:
		if fn == nil {
			return nil, false
		}
		return func(p *page.Page) any { return fn(p) }, true
	}
	return nil, false
}

// join resolves rel against base, keeping a trailing slash from rel.
func join(base, rel string) string {
	joined := path.Join(base, rel)
	if strings.HasSuffix(rel, "/") {
		return withSlash(joined)
	}
	return joined
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

func invalid(p *page.Page, value any, msg string) error {
	return errors.WrapError(berrors.ErrInvalidURLValue, errors.CategoryValidation, msg).
		Fatal().
		WithContext("page", p.SourcePath()).
		WithContext("value", value).
		Build()
}
