package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSideOutput_PagesJoinInInsertionOrder(t *testing.T) {
	out := NewSideOutput()
	out.record("b", &Component{CSS: ".b{}"})
	out.record("a", &Component{CSS: ".a{}", JS: "a()"})
	out.record("b", &Component{CSS: ".b2{}"})

	pages := out.Pages("/components.css", "/components.js")
	require.Len(t, pages, 2)

	css := pages[0]
	require.Equal(t, ".b2{}\n.a{}", css.Content)
	u, ok := css.URL()
	require.True(t, ok)
	require.Equal(t, "/components.css", u)
	require.True(t, css.Source.Asset)
	require.Equal(t, ".css", css.Source.Ext)

	js := pages[1]
	require.Equal(t, "a()", js.Content)
	require.Equal(t, "/components", js.Source.Path)
}

func TestSideOutput_EmptyCollectionsProduceNoPages(t *testing.T) {
	out := NewSideOutput()
	require.Empty(t, out.Pages("/c.css", "/c.js"))

	out.record("a", &Component{JS: "a()"})
	pages := out.Pages("/c.css", "/c.js")
	require.Len(t, pages, 1)
	require.Equal(t, ".js", pages[0].Source.Ext)
}
