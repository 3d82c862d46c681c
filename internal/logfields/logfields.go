package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyFile       = "file"
	KeyDest       = "dest"
	KeyComponent  = "component"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyFormat     = "format"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Dest(d string) slog.Attr         { return slog.String(KeyDest, d) }
func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Format(ext string) slog.Attr     { return slog.String(KeyFormat, ext) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
