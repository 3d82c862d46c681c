package components

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
)

func TestParse_ExtractsStyleAndScript(t *testing.T) {
	src := `<style>
  .btn { color: red; }
</style>
<button class="btn">{{ .label }}</button>
<script>
  console.log("btn")
</script>
`
	c, err := Parse("button", []byte(src))
	require.NoError(t, err)
	require.Equal(t, ".btn { color: red; }", c.CSS)
	require.Equal(t, `console.log("btn")`, c.JS)

	out, err := c.Render(map[string]any{"label": "<Go>"})
	require.NoError(t, err)
	require.Equal(t, `<button class="btn">&lt;Go&gt;</button>`, out)
}

func TestParse_MissingPropRendersEmpty(t *testing.T) {
	c, err := Parse("x", []byte(`<p>{{ .missing }}</p>`))
	require.NoError(t, err)
	out, err := c.Render(nil)
	require.NoError(t, err)
	require.Equal(t, "<p></p>", out)
}

func TestParse_InvalidTemplate(t *testing.T) {
	_, err := Parse("x", []byte(`<p>{{ .a </p>`))
	require.Error(t, err)
}

func TestFileLoader_LoadsNestedDirectories(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, DirName)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "UI"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Card.html"), []byte(`<div>{{ .title }}</div>`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "UI", "button.tmpl"), []byte(`<style>.b{}</style><b>{{ .label }}</b>`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o600))

	tree, err := entry.Scan(root)
	require.NoError(t, err)
	compDir, ok := tree.Child(DirName)
	require.True(t, ok)

	reg, err := FileLoader{}.Load(context.Background(), compDir)
	require.NoError(t, err)
	require.Len(t, reg, 2)
	require.Contains(t, reg, "card")

	ui, ok := reg["ui"].(Registry)
	require.True(t, ok)
	button, ok := ui["button"].(*Component)
	require.True(t, ok)
	require.Equal(t, ".b{}", button.CSS)

	out, err := NewAccessor(reg, NewSideOutput()).Call("ui.button", map[string]any{"label": "Go"})
	require.NoError(t, err)
	require.Equal(t, "<b>Go</b>", out)
}

func TestFileLoader_ReadFailure(t *testing.T) {
	dir := entry.NewDir(nil, "")
	comps := entry.NewDir(dir, DirName)
	entry.NewFile(comps, "broken.html", entry.Meta{})

	loader := FileLoader{ReadFile: func(context.Context, *entry.Entry) ([]byte, error) { return nil, os.ErrPermission }}
	_, err := loader.Load(context.Background(), comps)
	require.Error(t, err)
	require.True(t, stderrors.Is(err, berrors.ErrLoadFailed))
	require.True(t, stderrors.Is(err, os.ErrPermission))
}
