// Package datafiles loads the _data conventions of a source directory.
package datafiles

import (
	"context"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Prefix is the reserved name prefix of data files and directories.
const Prefix = "_data"

var extensions = map[string]bool{".yml": true, ".yaml": true, ".json": true}

// Loader produces the data layer of a directory.
type Loader interface {
	Load(ctx context.Context, dir *entry.Entry) (data.Data, error)
}

// FileLoader reads _data.yml, _data.yaml and _data.json files and _data
// directories. Inside a _data directory every file becomes a key named after
// its base name and subdirectories nest.
type FileLoader struct {
	ReadFile func(ctx context.Context, e *entry.Entry) ([]byte, error)
}

// IsDataEntry reports whether e is consumed by the data loader.
func IsDataEntry(e *entry.Entry) bool {
	if e.IsDir() {
		return e.Name == Prefix
	}
	ext := strings.ToLower(path.Ext(e.Name))
	return extensions[ext] && strings.TrimSuffix(e.Name, path.Ext(e.Name)) == Prefix
}

// Load merges every data entry of dir in scan order. A directory without
// data entries yields an empty mapping.
func (l FileLoader) Load(ctx context.Context, dir *entry.Entry) (data.Data, error) {
	var layers []data.Data
	for _, child := range dir.Children {
		if !IsDataEntry(child) {
			continue
		}
		var (
			layer data.Data
			err   error
		)
		if child.IsDir() {
			var m map[string]any
			m, err = l.loadDir(ctx, child)
			layer = data.Data(m)
		} else {
			layer, err = l.loadFile(ctx, child)
		}
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return data.Merge(layers...), nil
}

func (l FileLoader) loadDir(ctx context.Context, dir *entry.Entry) (map[string]any, error) {
	out := map[string]any{}
	for _, child := range dir.Children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.HasPrefix(child.Name, ".") {
			continue
		}
		if child.IsDir() {
			nested, err := l.loadDir(ctx, child)
			if err != nil {
				return nil, err
			}
			out[child.Name] = nested
			continue
		}
		ext := path.Ext(child.Name)
		if !extensions[strings.ToLower(ext)] {
			continue
		}
		d, err := l.loadFile(ctx, child)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(child.Name, ext)] = map[string]any(d)
	}
	return out, nil
}

func (l FileLoader) loadFile(ctx context.Context, e *entry.Entry) (data.Data, error) {
	read := l.ReadFile
	if read == nil {
		read = entry.ReadFile
	}
	raw, err := read(ctx, e)
	if err != nil {
		return nil, loadError(e, err)
	}
	d := data.Data{}
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, loadError(e, err)
	}
	return d, nil
}

func loadError(e *entry.Entry, err error) error {
	return errors.WrapError(fmt.Errorf("%w: %w", berrors.ErrLoadFailed, err), errors.CategoryData, "failed to load data file").
		Fatal().
		WithContext("path", e.Path).
		Build()
}
