package render

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

func TestRender_Markdown(t *testing.T) {
	p := &page.Page{Source: page.Source{Ext: ".md"}, Data: data.Data{"content": "# Title\n\n| a |\n|---|\n| 1 |\n"}}

	require.NoError(t, New("comp").Render(context.Background(), []*page.Page{p}))
	require.Contains(t, p.Content, "<h1>Title</h1>")
	require.Contains(t, p.Content, "<table>")
}

func TestRender_HTMLWithComponents(t *testing.T) {
	button, err := components.Parse("button", []byte(`<style>.b{}</style><b>{{ .label }}</b>`))
	require.NoError(t, err)
	side := components.NewSideOutput()
	acc := components.NewAccessor(components.Registry{"button": button}, side)

	p := &page.Page{
		Source: page.Source{Ext: ".html"},
		Data: data.Data{
			"title":   "Home",
			"comp":    acc,
			"content": `<h1>{{ .title }}</h1>{{ comp "button" "label" .title }}`,
		},
	}

	require.NoError(t, New("comp").Render(context.Background(), []*page.Page{p}))
	require.Equal(t, "<h1>Home</h1><b>Home</b>", p.Content)
	require.Equal(t, []string{"button"}, side.Styles())
}

func TestRender_MissingComponentFails(t *testing.T) {
	p := &page.Page{Source: page.Source{Ext: ".html"}, Data: data.Data{"content": `{{ comp "nope" }}`}}

	err := New("comp").Render(context.Background(), []*page.Page{p})
	require.Error(t, err)
	require.True(t, stderrors.Is(err, berrors.ErrComponentNotFound))
}

func TestRender_AssetsAndPrefilledPassThrough(t *testing.T) {
	asset := &page.Page{Source: page.Source{Ext: ".css", Asset: true}, Data: data.Data{"content": "a{}"}}
	prefilled := &page.Page{Source: page.Source{Ext: ".md"}, Content: "done", Data: data.Data{"content": "# x"}}
	dataOnly := &page.Page{Source: page.Source{Ext: ".page.yml"}, Data: data.Data{"title": "x"}}

	require.NoError(t, New("comp").Render(context.Background(), []*page.Page{asset, prefilled, dataOnly}))
	require.Equal(t, "a{}", asset.Content)
	require.Equal(t, "done", prefilled.Content)
	require.Empty(t, dataOnly.Content)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New("comp").Render(ctx, []*page.Page{{Data: data.Data{}}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRender_TemplateSeesPage(t *testing.T) {
	p := &page.Page{
		Source: page.Source{Ext: ".html", Slug: "about"},
		Data: data.Data{
			"url":     "/about/",
			"content": `{{ .page.Source.Slug }} {{ .url }}`,
		},
	}

	require.NoError(t, New("comp").Render(context.Background(), []*page.Page{p}))
	require.Equal(t, "about /about/", p.Content)
	_, stored := p.Data[KeyPage]
	require.False(t, stored)
}

func TestRender_DataPageKeyWins(t *testing.T) {
	p := &page.Page{
		Source: page.Source{Ext: ".html"},
		Data:   data.Data{"page": "custom", "content": `{{ .page }}`},
	}

	require.NoError(t, New("comp").Render(context.Background(), []*page.Page{p}))
	require.Equal(t, "custom", p.Content)
}
