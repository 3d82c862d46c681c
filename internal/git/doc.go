// Package git answers version-control timestamp queries for source files.
//
// TimestampOracle opens the repository containing a file with go-git and reads
// the committer time of the first and last commits touching it. Lookups are
// best-effort: a file outside a repository, an untracked file or any go-git
// failure yields ok == false so the caller falls back to filesystem metadata.
package git
