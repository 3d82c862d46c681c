package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/page"
)

// Manifest is the printable summary of a build.
type Manifest struct {
	BuildID     string         `yaml:"build_id"`
	Duration    string         `yaml:"duration"`
	Pages       []ManifestPage `yaml:"pages"`
	StaticFiles []ManifestFile `yaml:"static_files"`
}

// ManifestPage describes one page with an output url.
type ManifestPage struct {
	URL    string `yaml:"url"`
	Source string `yaml:"source,omitempty"`
	Date   string `yaml:"date"`
	Bytes  int    `yaml:"bytes,omitempty"`
}

// ManifestFile describes one static copy.
type ManifestFile struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
}

func newManifest(res *build.Result, extra []*page.Page) Manifest {
	m := Manifest{
		BuildID:  res.BuildID,
		Duration: res.Duration.Round(time.Millisecond).String(),
	}
	for _, p := range append(res.PagesWithURL(), extra...) {
		u, ok := p.URL()
		if !ok {
			continue
		}
		mp := ManifestPage{URL: u, Source: p.SourcePath(), Bytes: len(p.Content)}
		if d := p.Date(); !d.IsZero() {
			mp.Date = d.Format(time.RFC3339)
		}
		m.Pages = append(m.Pages, mp)
	}
	for _, sf := range res.StaticFiles {
		m.StaticFiles = append(m.StaticFiles, ManifestFile{Source: sf.Entry.Path, Dest: sf.Dest})
	}
	return m
}

func writeManifest(w io.Writer, m Manifest, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "URL\tSOURCE\tDATE")
		for _, p := range m.Pages {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.URL, orDash(p.Source), orDash(p.Date))
		}
		if len(m.StaticFiles) > 0 {
			_, _ = fmt.Fprintln(tw, "\nSTATIC\tDEST\t")
			for _, f := range m.StaticFiles {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t\n", f.Source, f.Dest)
			}
		}
		_, _ = fmt.Fprintf(tw, "\n%d pages, %d static files in %s (build %s)\n",
			len(m.Pages), len(m.StaticFiles), m.Duration, m.BuildID)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
