// Package dates resolves page dates from data values, file name prefixes and
// filesystem or version-control metadata.
package dates

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/entry"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// TimestampKind selects which version-control timestamp to look up.
type TimestampKind string

const (
	KindCreated  TimestampKind = "created"
	KindModified TimestampKind = "modified"
)

// Keywords accepted as date values (case-insensitive).
const (
	GitCreated      = "git created"
	GitLastModified = "git last modified"
)

// Oracle answers version-control timestamp queries. Implementations are
// best-effort: any failure is reported as ok == false, never as an error.
type Oracle interface {
	Timestamp(kind TimestampKind, src string) (time.Time, bool)
}

var filenameDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:-(\d{2})-(\d{2})(?:-(\d{2}))?)?[_-](.*)`)

// ParseFilename splits a leading yyyy-mm-dd[-hh-ii[-ss]] prefix off name. When
// no prefix matches, it returns name and the zero time. A prefix whose fields
// are out of range is an ErrInvalidDate error.
func ParseFilename(name string) (string, time.Time, error) {
	m := filenameDate.FindStringSubmatch(name)
	if m == nil {
		return name, time.Time{}, nil
	}

	f := make([]int, 6)
	for i := range f {
		if m[i+1] != "" {
			f[i], _ = strconv.Atoi(m[i+1])
		}
	}
	date := time.Date(f[0], time.Month(f[1]), f[2], f[3], f[4], f[5], 0, time.UTC)
	if date.Year() != f[0] || int(date.Month()) != f[1] || date.Day() != f[2] ||
		date.Hour() != f[3] || date.Minute() != f[4] || date.Second() != f[5] {
		return "", time.Time{}, errors.WrapError(berrors.ErrInvalidDate, errors.CategoryValidation, "file name date is out of range").
			Fatal().
			WithContext("value", name).
			Build()
	}
	return m[7], date, nil
}

// Resolver computes effective dates.
type Resolver struct {
	oracle Oracle
	now    func() time.Time
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil oracle disables version-control
// lookups; a nil now uses time.Now.
func NewResolver(oracle Oracle, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{oracle: oracle, now: now, logger: slog.Default()}
}

// WithLogger sets the logger for soft-failed lookups.
func (r *Resolver) WithLogger(l *slog.Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Resolve returns the effective date for value, using e (which may be nil) for
// the fallbacks. Zone-less ISO strings are read as UTC.
func (r *Resolver) Resolve(value any, e *entry.Entry) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		if e == nil {
			return r.now(), nil
		}
		return r.firstSet(e.Meta.CreatedTime, e.Meta.ModTime), nil
	case time.Time:
		return v, nil
	case *time.Time:
		if v != nil {
			return *v, nil
		}
		return r.Resolve(nil, e)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return time.UnixMilli(cast.ToInt64(v)).UTC(), nil
	case string:
		if e != nil {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case GitCreated:
				return r.fromOracle(KindCreated, e, e.Meta.CreatedTime), nil
			case GitLastModified:
				return r.fromOracle(KindModified, e, e.Meta.ModTime), nil
			}
		}
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, strings.TrimSpace(v), time.UTC); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, r.invalid(value, e)
}

func (r *Resolver) fromOracle(kind TimestampKind, e *entry.Entry, fallback time.Time) time.Time {
	if r.oracle != nil {
		if t, ok := r.oracle.Timestamp(kind, e.Meta.Src); ok && !t.IsZero() {
			return t
		}
		r.logger.Debug("Version-control date unavailable, using filesystem metadata",
			logfields.Path(e.Path), slog.String("kind", string(kind)))
	}
	return r.firstSet(fallback)
}

func (r *Resolver) firstSet(candidates ...time.Time) time.Time {
	for _, t := range candidates {
		if !t.IsZero() {
			return t
		}
	}
	return r.now()
}

func (r *Resolver) invalid(value any, e *entry.Entry) error {
	src := ""
	if e != nil {
		src = e.Meta.Src
	}
	return errors.WrapError(berrors.ErrInvalidDate, errors.CategoryValidation, "invalid date value").
		Fatal().
		WithContext("value", value).
		WithContext("source", src).
		Build()
}
