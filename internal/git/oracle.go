package git

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/sitebuilder/internal/dates"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// DefaultCacheSize bounds the number of memoised lookups per oracle.
const DefaultCacheSize = 4096

type repoHandle struct {
	repo *git.Repository
	root string
}

// TimestampOracle implements dates.Oracle on top of go-git. One oracle is
// meant to live for a single build session.
type TimestampOracle struct {
	mu       sync.Mutex
	repos    map[string]*repoHandle // keyed by the directory the lookup started from
	results  *lru.Cache[string, time.Time]
	recorder metrics.Recorder
}

var _ dates.Oracle = (*TimestampOracle)(nil)

// NewTimestampOracle creates an oracle memoising up to size results.
func NewTimestampOracle(size int, recorder metrics.Recorder) (*TimestampOracle, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	results, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}
	return &TimestampOracle{
		repos:    make(map[string]*repoHandle),
		results:  results,
		recorder: recorder,
	}, nil
}

// Timestamp returns the committer time of the commit that added (KindCreated)
// or last changed (KindModified) the file at src.
func (o *TimestampOracle) Timestamp(kind dates.TimestampKind, src string) (time.Time, bool) {
	key := string(kind) + "\x00" + src
	if t, ok := o.results.Get(key); ok {
		return t, !t.IsZero()
	}

	t, err := o.lookup(kind, src)
	if err != nil {
		slog.Debug("Git timestamp lookup failed", logfields.File(src), slog.String("kind", string(kind)), logfields.Error(err))
	}
	o.results.Add(key, t)
	if t.IsZero() {
		o.recorder.IncVCSLookup(metrics.LookupMiss)
		return time.Time{}, false
	}
	o.recorder.IncVCSLookup(metrics.LookupHit)
	return t, true
}

var errStop = errors.New("stop iteration")

func (o *TimestampOracle) lookup(kind dates.TimestampKind, src string) (time.Time, error) {
	h, err := o.open(filepath.Dir(src))
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(h.root, src)
	if err != nil {
		return time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	o.mu.Lock()
	defer o.mu.Unlock()

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		return time.Time{}, err
	}
	defer iter.Close()

	var found time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		found = c.Committer.When
		if kind == dates.KindModified {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return time.Time{}, err
	}
	return found, nil
}

func (o *TimestampOracle) open(dir string) (*repoHandle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if h, ok := o.repos[dir]; ok {
		return h, nil
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	h := &repoHandle{repo: repo, root: wt.Filesystem.Root()}
	o.repos[dir] = h
	return h, nil
}
