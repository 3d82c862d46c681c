package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Src      string        `help:"Source directory (overrides config src)"`
	Render   bool          `help:"Render page content on each rebuild"`
	Interval time.Duration `help:"Also rebuild on this interval (0 disables)" default:"0s"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := buildOptions{src: srcRoot(w.Src, root.Config, cfg), render: w.Render}
	return watch.Run(ctx, opts.src, rebuilder(cfg, opts), watch.Options{Interval: w.Interval})
}

// rebuilder returns a watch.Rebuild running a fresh session each time, so
// version-control dates are never served from a previous build's cache.
func rebuilder(cfg *config.Config, opts buildOptions) watch.Rebuild {
	return func(ctx context.Context) error {
		m, err := runBuild(ctx, cfg, opts)
		if err != nil {
			return err
		}
		printSummary(os.Stdout, m)
		return nil
	}
}
