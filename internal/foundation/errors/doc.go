// Package errors provides the classified error primitives used across the site builder.
//
// A ClassifiedError carries a category, a severity, a message, an optional cause
// and a free-form context map. Errors are constructed through the fluent
// ErrorBuilder so every failure raised by the build core looks the same to the CLI:
//
//	err := errors.WrapError(cause, errors.CategoryData, "failed to load directory data").
//		WithContext("path", entry.Path).
//		Build()
//
// The cause chain is preserved, so sentinel errors wrapped as causes remain
// reachable through the standard library's errors.Is and errors.As.
package errors
