// Package errors provides sentinel errors for the site build core.
// They are always wrapped in a ClassifiedError carrying the offending value and
// source, so callers match them with errors.Is.
package errors

import "errors"

var (
	// ErrComponentNotFound indicates a component accessor lookup missed.
	ErrComponentNotFound = errors.New("component not found")

	// ErrInvalidURLValue indicates a page url value has the wrong type or shape.
	ErrInvalidURLValue = errors.New("invalid url value")

	// ErrInvalidDate indicates an explicit or filename date could not be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrLoadFailed indicates a data, component or content loader failed.
	ErrLoadFailed = errors.New("load failed")

	// ErrScanFailed indicates the entry tree could not be read from disk.
	ErrScanFailed = errors.New("entry scan failed")
)
