// Package metrics provides build observability for the site builder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	session := build.NewSession(build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder registers its collectors on the given registry; the CLI
// exports them with prometheus.WriteToTextfile after a build.
package metrics
