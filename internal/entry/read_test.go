package entry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_LocalFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o600))

	e := NewFile(NewDir(nil, ""), "a.md", Meta{Src: src})
	body, err := ReadFile(context.Background(), e)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestRead_MissingSource(t *testing.T) {
	e := NewFile(NewDir(nil, ""), "a.md", Meta{})
	_, err := ReadFile(context.Background(), e)
	require.Error(t, err)
}

func TestRead_RemoteEntryIsFetched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/post.md" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("# Remote"))
	}))
	defer srv.Close()

	root := NewDir(nil, "")
	remote := NewFile(root, "post.md", Meta{Src: srv.URL + "/post.md", Flags: map[string]struct{}{FlagRemote: {}}})
	body, err := Reader{Client: srv.Client()}.Read(context.Background(), remote)
	require.NoError(t, err)
	require.Equal(t, "# Remote", string(body))

	missing := NewFile(root, "gone.md", Meta{Src: srv.URL + "/gone.md", Flags: map[string]struct{}{FlagRemote: {}}})
	_, err = Reader{Client: srv.Client()}.Read(context.Background(), missing)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "HTTP 404"))
}
