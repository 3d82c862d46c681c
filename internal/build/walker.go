package build

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/dates"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/formats"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
	"git.home.luguber.info/inful/sitebuilder/internal/urls"
)

// walk is the state of one Build call.
type walk struct {
	s        *Session
	dates    *dates.Resolver
	logger   *slog.Logger
	side     *components.SideOutput
	byPath   map[string]data.Data
	result   *Result
	injectAt time.Time
}

// Build walks root and returns every page and static file. On error nothing
// is returned; the previous build's snapshots are kept.
func (s *Session) Build(ctx context.Context, root *entry.Entry) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	began := time.Now()
	id := uuid.NewString()
	logger := s.logger.With(logfields.BuildID(id))
	w := &walk{
		s:        s,
		dates:    dates.NewResolver(s.oracle, s.now).WithLogger(logger),
		logger:   logger,
		side:     components.NewSideOutput(),
		byPath:   map[string]data.Data{},
		result:   &Result{BuildID: id, StartTime: start},
		injectAt: start,
	}

	if err := w.root(ctx, root); err != nil {
		s.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		w.logger.Error("Build failed", logfields.Error(err))
		return nil, err
	}

	s.dataByPath = w.byPath
	s.side = w.side

	w.result.Duration = time.Since(began)
	s.recorder.ObserveBuildDuration(w.result.Duration)
	s.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	w.logger.Info("Build completed",
		slog.Int("pages", len(w.result.Pages)),
		slog.Int("static_files", len(w.result.StaticFiles)),
		slog.Int("directories", w.result.Directories),
		logfields.Duration(w.result.Duration))
	return w.result, nil
}

func (w *walk) root(ctx context.Context, root *entry.Entry) error {
	if root == nil || !root.IsDir() {
		return ferrors.ValidationError("build root must be a directory entry").Build()
	}
	ok, err := w.structural(root)
	if err != nil || !ok {
		return err
	}
	return w.dir(ctx, root, "/", data.Data{}, components.Registry{})
}

// dir processes one directory whose output path is outPath (date prefix
// already stripped) and recurses into its subdirectories.
func (w *walk) dir(ctx context.Context, dir *entry.Entry, outPath string, parentData data.Data, parentComps components.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.result.Directories++
	w.s.recorder.IncDirectories()
	w.logger.Debug("Building directory", logfields.Path(dir.Path), logfields.URL(outPath))

	dirData, comps, err := w.cascade(ctx, dir, parentData, parentComps)
	if err != nil {
		return err
	}
	w.byPath[dir.Path] = dirData

	if err := w.inject(dir, outPath, dirData); err != nil {
		return err
	}

	for _, child := range dir.Children {
		ok, err := w.structural(child)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if sp, ok := w.s.static[child.Path]; ok && (child.IsDir() || !sp.dirOnly) {
			w.staticEntry(child, outPath, sp)
			continue
		}

		if w.s.isIgnored(child) {
			continue
		}

		if child.IsDir() {
			slug, _, err := dates.ParseFilename(child.Name)
			if err != nil {
				return err
			}
			if err := w.dir(ctx, child, outputPath(outPath, slug), dirData, comps); err != nil {
				return err
			}
			continue
		}

		if err := w.file(ctx, child, outPath, dirData); err != nil {
			return err
		}
	}
	return nil
}

// cascade merges the scope override, the inherited data, the directory date
// and the _data files of dir, and exposes the component accessor when this
// level adds components.
func (w *walk) cascade(ctx context.Context, dir *entry.Entry, parentData data.Data, parentComps components.Registry) (data.Data, components.Registry, error) {
	seed := data.Data{}
	if dir.Path != "/" {
		_, date, err := dates.ParseFilename(dir.Name)
		if err != nil {
			return nil, nil, err
		}
		if !date.IsZero() {
			seed[data.KeyDate] = date
		}
	}

	loaded, err := w.s.dataLoader.Load(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	scoped, _ := w.s.scope.Data(dir.Path)
	dirData := data.Merge(scoped, parentData, seed, loaded)

	scopedComps, hasScoped := w.s.scope.Components(dir.Path)
	var loadedComps components.Registry
	if compDir, ok := dir.Child(components.DirName); ok && compDir.IsDir() {
		loadedComps, err = w.s.componentLoader.Load(ctx, compDir)
		if err != nil {
			return nil, nil, err
		}
	}
	if !hasScoped && loadedComps == nil {
		return dirData, parentComps, nil
	}

	comps := components.Merge(parentComps, scopedComps, loadedComps)
	dirData[w.s.componentsKey] = components.NewAccessor(comps, w.side)
	w.logger.Debug("Components available", logfields.Path(dir.Path), logfields.Count(comps.Len()))
	return dirData, comps, nil
}

func (w *walk) inject(dir *entry.Entry, outPath string, dirData data.Data) error {
	for _, injected := range w.s.scope.Pages(dir.Path) {
		p := &page.Page{Data: data.Merge(dirData, data.Data{data.KeyDate: w.injectAt}, injected)}
		if err := w.resolve(p, outPath, nil); err != nil {
			return err
		}
		w.appendPage(p, metrics.PageInjected)
	}
	return nil
}

func (w *walk) file(ctx context.Context, e *entry.Entry, outPath string, dirData data.Data) error {
	f, ok := w.s.formats.Search(e.Path)
	if !ok {
		if w.s.catchAll == nil {
			return nil
		}
		if dest, ok := w.s.catchAll(outputPath(outPath, e.Name)); ok {
			w.appendStatic(e, dest)
		}
		return nil
	}

	if f.IsCopy() {
		w.appendStatic(e, copyDest(f.Copy, e, outPath))
		return nil
	}
	if f.Loader == nil {
		return nil
	}

	ext := e.Name[len(e.Name)-len(f.Ext):]
	slug, date, err := dates.ParseFilename(strings.TrimSuffix(e.Name, ext))
	if err != nil {
		return err
	}

	p := &page.Page{Source: page.Source{
		Path:         strings.TrimSuffix(e.Path, ext),
		Slug:         slug,
		Ext:          ext,
		Asset:        f.Asset,
		Created:      e.Meta.CreatedTime,
		LastModified: e.Meta.ModTime,
		Entry:        e,
	}}
	if e.HasFlag(entry.FlagRemote) {
		p.Source.Remote = e.Meta.Src
	}

	loaded, err := f.Loader.Load(ctx, e)
	if err != nil {
		return fmt.Errorf("load %s: %w", e.Path, err)
	}

	seed := data.Data{}
	if !date.IsZero() {
		seed[data.KeyDate] = date
	}
	scoped, _ := w.s.scope.Data(e.Path)
	p.Data = data.Merge(dirData, seed, scoped, loaded)

	if err := w.resolve(p, outPath, e); err != nil {
		return err
	}

	for _, filter := range w.s.filters {
		ok, err := filter(e, p)
		if err != nil {
			return err
		}
		if !ok {
			w.filtered(e, metrics.FilterContentAware)
			return nil
		}
	}

	w.appendPage(p, metrics.PageFile)
	return nil
}

// resolve stores the final url (or false) and date on p.
func (w *walk) resolve(p *page.Page, outPath string, e *entry.Entry) error {
	u, ok, err := urls.Resolve(p, outPath, w.s.pretty)
	if err != nil {
		return err
	}
	if ok {
		p.Data[data.KeyURL] = u
	} else {
		p.Data[data.KeyURL] = false
	}

	date, err := w.dates.Resolve(p.Data[data.KeyDate], e)
	if err != nil {
		return err
	}
	p.Data[data.KeyDate] = date
	return nil
}

func (w *walk) structural(e *entry.Entry) (bool, error) {
	for _, filter := range w.s.filters {
		ok, err := filter(e, nil)
		if err != nil {
			return false, err
		}
		if !ok {
			w.filtered(e, metrics.FilterStructural)
			return false, nil
		}
	}
	return true, nil
}

func (w *walk) filtered(e *entry.Entry, stage metrics.FilterStage) {
	w.result.Filtered++
	w.s.recorder.IncFiltered(stage)
	w.logger.Debug("Filtered", logfields.Path(e.Path), slog.String("stage", string(stage)))
}

func (w *walk) appendPage(p *page.Page, kind metrics.PageKind) {
	w.result.Pages = append(w.result.Pages, p)
	w.s.recorder.IncPages(kind)
	u, _ := p.URL()
	w.logger.Debug("Page", logfields.Path(p.SourcePath()), logfields.URL(u))
}

func (w *walk) appendStatic(e *entry.Entry, dest string) {
	dest = strings.TrimPrefix(path.Clean("/"+dest), "/")
	w.result.StaticFiles = append(w.result.StaticFiles, &page.StaticFile{Entry: e, Dest: dest})
	w.s.recorder.IncStaticFiles()
	w.logger.Debug("Static file", logfields.Path(e.Path), logfields.Dest(dest))
}

func copyDest(rule *formats.CopyRule, e *entry.Entry, outPath string) string {
	mirrored := outputPath(outPath, e.Name)
	switch {
	case rule.Rename != nil:
		return rule.Rename(mirrored)
	case rule.Dest != "":
		return rule.Dest
	default:
		return mirrored
	}
}
