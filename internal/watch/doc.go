// Package watch re-runs a build when the source tree changes and, optionally,
// on a fixed interval.
package watch
