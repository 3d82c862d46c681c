package commands

import (
	"fmt"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/data"
	"git.home.luguber.info/inful/sitebuilder/internal/git"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// newSession configures a build session from cfg. The returned registry
// holds the session's Prometheus collectors.
func newSession(cfg *config.Config) (*build.Session, *prom.Registry, error) {
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	s := build.NewSession().
		WithPrettyURLs(cfg.Pretty()).
		WithComponents(cfg.Components.Variable, cfg.Components.CSSFile, cfg.Components.JSFile).
		WithRecorder(recorder)

	if cfg.GitDates {
		oracle, err := git.NewTimestampOracle(git.DefaultCacheSize, recorder)
		if err != nil {
			return nil, nil, fmt.Errorf("git dates: %w", err)
		}
		s.WithOracle(oracle)
	}
	if cfg.CopyRemainingFiles {
		s.WithCatchAll(build.CopyRemaining)
	}

	for _, sp := range cfg.Static {
		s.AddStaticPath(sp.From, sp.To)
	}
	s.Ignore(cfg.Ignore...)

	if len(cfg.Data) > 0 {
		s.Scope().SetData("/", data.Data(cfg.Data))
	}
	for dir, pages := range cfg.Pages {
		injected := make([]data.Data, 0, len(pages))
		for _, p := range pages {
			injected = append(injected, data.Data(p))
		}
		s.Scope().AddPages(dir, injected...)
	}
	return s, reg, nil
}

// srcRoot resolves the source directory: the flag wins over the config, and a
// relative config src is taken relative to the config file.
func srcRoot(flag, configPath string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if configPath != "" && !filepath.IsAbs(cfg.Src) {
		return filepath.Join(filepath.Dir(configPath), cfg.Src)
	}
	return cfg.Src
}
