package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Src          string `help:"Source directory (overrides config src)"`
	NoPrettyURLs bool   `name:"no-pretty-urls" help:"Emit page.html urls instead of page/"`
	Render       bool   `help:"Render page content (markdown, templates, components)"`
	Output       string `short:"o" help:"Manifest format" enum:"text,yaml" default:"text"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	opts := buildOptions{
		src:    srcRoot(b.Src, root.Config, cfg),
		render: b.Render,
	}
	if b.NoPrettyURLs {
		pretty := false
		cfg.PrettyURLs = &pretty
	}
	m, err := runBuild(context.Background(), cfg, opts)
	if err != nil {
		return err
	}
	return writeManifest(os.Stdout, m, b.Output)
}

type buildOptions struct {
	src    string
	render bool
}

// runBuild scans, builds and optionally renders one site, then exports
// metrics when configured.
func runBuild(ctx context.Context, cfg *config.Config, opts buildOptions) (Manifest, error) {
	session, reg, err := newSession(cfg)
	if err != nil {
		return Manifest{}, err
	}
	res, err := buildOnce(ctx, session, cfg, opts)
	if exportErr := exportMetrics(cfg, reg); exportErr != nil {
		slog.Warn("Metrics export failed", logfields.Error(exportErr))
	}
	if err != nil {
		return Manifest{}, err
	}
	var assets []*page.Page
	if opts.render {
		assets = session.ComponentAssets()
	}
	return newManifest(res, assets), nil
}

func buildOnce(ctx context.Context, session *build.Session, cfg *config.Config, opts buildOptions) (*build.Result, error) {
	root, err := entry.Scan(opts.src)
	if err != nil {
		return nil, err
	}
	res, err := session.Build(ctx, root)
	if err != nil {
		return nil, err
	}
	if opts.render {
		if err := render.New(cfg.Components.Variable).Render(ctx, res.Pages); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}
	return res, nil
}

func exportMetrics(cfg *config.Config, reg *prom.Registry) error {
	if cfg.Metrics.Textfile == "" {
		return nil
	}
	return prom.WriteToTextfile(cfg.Metrics.Textfile, reg)
}

// printSummary is used by watch, where a full manifest per rebuild is noise.
func printSummary(w io.Writer, m Manifest) {
	_, _ = fmt.Fprintf(w, "%d pages, %d static files in %s (build %s)\n",
		len(m.Pages), len(m.StaticFiles), m.Duration, m.BuildID)
}
