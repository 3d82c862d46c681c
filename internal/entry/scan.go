package entry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Scan reads the directory at root into an Entry tree. Children are ordered by
// name (os.ReadDir order). The platform creation time is not portable, so
// CreatedTime mirrors ModTime.
func Scan(root string) (*Entry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(fmt.Errorf("%w: %w", berrors.ErrScanFailed, err), errors.CategoryFileSystem, "failed to resolve source directory").
			WithContext("root", root).
			Build()
	}
	info, err := os.Stat(abs)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", abs)
	}
	if err != nil {
		return nil, errors.WrapError(fmt.Errorf("%w: %w", berrors.ErrScanFailed, err), errors.CategoryFileSystem, "source directory not found").
			WithContext("root", abs).
			Build()
	}

	rootEntry := NewDir(nil, "")
	rootEntry.Meta = metaFor(abs, info)
	if err := scanDir(rootEntry, abs); err != nil {
		return nil, err
	}
	return rootEntry, nil
}

func scanDir(dir *Entry, fsPath string) error {
	items, err := os.ReadDir(fsPath)
	if err != nil {
		return errors.WrapError(fmt.Errorf("%w: %w", berrors.ErrScanFailed, err), errors.CategoryFileSystem, "failed to read directory").
			WithContext("path", fsPath).
			Build()
	}

	for _, item := range items {
		childFS := filepath.Join(fsPath, item.Name())
		info, err := item.Info()
		if err != nil {
			slog.Warn("Skipping unreadable entry", logfields.Path(childFS), logfields.Error(err))
			continue
		}
		switch {
		case item.IsDir():
			child := NewDir(dir, item.Name())
			child.Meta = metaFor(childFS, info)
			if err := scanDir(child, childFS); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			NewFile(dir, item.Name(), metaFor(childFS, info))
		}
	}
	return nil
}

func metaFor(src string, info os.FileInfo) Meta {
	return Meta{
		ModTime:     info.ModTime(),
		CreatedTime: info.ModTime(),
		Src:         src,
	}
}
