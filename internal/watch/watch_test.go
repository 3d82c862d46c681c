package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"/site/index.md":       false,
		"/site/_data.yml":      false,
		"/site/.hidden":        true,
		"/site/.#index.md":     true,
		"/site/index.md~":      true,
		"/site/.index.md.swp":  true,
		"/site/index.md.swx":   true,
		"/site/#index.md#":     true,
		"/site/.DS_Store":      true,
		"/site/blog/Thumbs.db": true,
		"/site/blog/post.md":   false,
		"/site/blog/#notes.md": false,
	}
	for name, want := range cases {
		require.Equal(t, want, shouldIgnoreEvent(name), name)
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.Stop()

	for range 10 {
		d.Trigger()
	}

	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("expected a request")
	}

	select {
	case <-d.C():
		t.Fatal("burst should produce a single request")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDebouncer_StopClosesAndIgnoresTriggers(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.Stop()
	d.Trigger()
	d.Stop()

	_, ok := <-d.C()
	require.False(t, ok)
}

func TestScheduler_Every(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	require.Error(t, s.Every(0, func() {}))

	var n atomic.Int32
	require.NoError(t, s.Every(10*time.Millisecond, func() { n.Add(1) }))
	s.Start()
	require.Eventually(t, func() bool { return n.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.md"), []byte("# hi"), 0o600))

	var builds atomic.Int32
	ctx, cancel := context.WithCancel(t.Context())
	errc := make(chan error, 1)
	go func() {
		errc <- Run(ctx, root, func(context.Context) error {
			builds.Add(1)
			return nil
		}, Options{Debounce: 10 * time.Millisecond})
	}()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	// The watcher is registered after the first build; keep touching until seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(root, "page.md"), []byte(time.Now().String()), 0o600)
		return builds.Load() >= 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_MissingRoot(t *testing.T) {
	var builds atomic.Int32
	err := Run(t.Context(), filepath.Join(t.TempDir(), "missing"), func(context.Context) error {
		builds.Add(1)
		return nil
	}, Options{})
	require.Error(t, err)
	require.Equal(t, int32(1), builds.Load())
}
