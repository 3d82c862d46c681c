package errors

import "maps"

// ErrorCategory routes an error to an exit code and tells the user which
// layer failed.
type ErrorCategory string

// Input problems.
const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
)

// Failures while walking the entry tree.
const (
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryData       ErrorCategory = "data"
	CategoryComponent  ErrorCategory = "component"
	CategoryGit        ErrorCategory = "git"
)

// CategoryInternal marks bugs and errors with no classification.
const CategoryInternal ErrorCategory = "internal"

// ErrorSeverity indicates whether the build can continue.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the build
	SeverityError   ErrorSeverity = "error"   // fails the current operation
	SeverityWarning ErrorSeverity = "warning" // logged, build continues
)

// ErrorContext holds the offending values of an error (path, url, value...).
type ErrorContext map[string]any

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// with returns a copy of c with key set.
func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}
