// Package metrics defines the sinks that record solve outcomes. Sinks are
// built by name through NewMetricsSink; infra/metrics registers the
// Prometheus and InfluxDB implementations. Several configured sinks are
// combined into a MultiSink.
package metrics
