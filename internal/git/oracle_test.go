package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/dates"
)

// commitFile writes content to name and commits it at the given time.
func commitFile(t *testing.T, repo *git.Repository, repoPath, name, content string, when time.Time) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	full := filepath.Join(repoPath, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	_, err = wt.Add(filepath.ToSlash(name))
	require.NoError(t, err)
	sig := &object.Signature{Name: "tester", Email: "t@example.com", When: when}
	_, err = wt.Commit("update "+name, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
}

func TestTimestampOracle_CreatedAndModified(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "blog/post.md", "v1", first)
	commitFile(t, repo, dir, "other.md", "x", first.Add(time.Hour))
	commitFile(t, repo, dir, "blog/post.md", "v2", second)

	o, err := NewTimestampOracle(0, nil)
	require.NoError(t, err)
	src := filepath.Join(dir, "blog", "post.md")

	created, ok := o.Timestamp(dates.KindCreated, src)
	require.True(t, ok)
	require.True(t, first.Equal(created), "created %v", created)

	modified, ok := o.Timestamp(dates.KindModified, src)
	require.True(t, ok)
	require.True(t, second.Equal(modified), "modified %v", modified)

	// Memoised result is returned unchanged.
	again, ok := o.Timestamp(dates.KindModified, src)
	require.True(t, ok)
	require.True(t, modified.Equal(again))
}

func TestTimestampOracle_SoftFailures(t *testing.T) {
	o, err := NewTimestampOracle(8, nil)
	require.NoError(t, err)

	// Not a repository.
	plain := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(plain, []byte("a"), 0o600))
	_, ok := o.Timestamp(dates.KindCreated, plain)
	require.False(t, ok)

	// Untracked file inside a repository.
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "tracked.md", "x", time.Now())
	untracked := filepath.Join(dir, "untracked.md")
	require.NoError(t, os.WriteFile(untracked, []byte("u"), 0o600))
	_, ok = o.Timestamp(dates.KindModified, untracked)
	require.False(t, ok)
}
