// Package entry models the read-only source tree the build walker descends.
package entry

import (
	"path"
	"time"
)

// Kind distinguishes files from directories.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// FlagRemote marks entries whose content comes from a remote locator.
const FlagRemote = "remote"

// Meta holds the filesystem metadata captured by the scanner.
type Meta struct {
	ModTime     time.Time
	CreatedTime time.Time
	Src         string // Source locator: absolute filesystem path or remote URL
	Flags       map[string]struct{}
}

// Entry is a node of the source tree. Path is site-relative and always starts
// with "/"; the root entry has Path "/". Children keep scan order.
type Entry struct {
	Path     string
	Name     string
	Kind     Kind
	Children []*Entry
	Meta     Meta
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool { return e.Kind == KindDirectory }

// HasFlag reports whether the entry carries the given flag.
func (e *Entry) HasFlag(flag string) bool {
	_, ok := e.Meta.Flags[flag]
	return ok
}

// Child returns the direct child with the given name.
func (e *Entry) Child(name string) (*Entry, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NewDir creates a directory entry under parent (nil for the root) and appends it.
func NewDir(parent *Entry, name string) *Entry {
	e := &Entry{Name: name, Kind: KindDirectory, Path: childPath(parent, name)}
	if parent != nil {
		parent.Children = append(parent.Children, e)
	}
	return e
}

// NewFile creates a file entry under parent and appends it.
func NewFile(parent *Entry, name string, meta Meta) *Entry {
	e := &Entry{Name: name, Kind: KindFile, Path: childPath(parent, name), Meta: meta}
	if parent != nil {
		parent.Children = append(parent.Children, e)
	}
	return e
}

func childPath(parent *Entry, name string) string {
	if parent == nil {
		return "/"
	}
	return path.Join(parent.Path, name)
}
