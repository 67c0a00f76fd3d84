// Package infra holds the adapters behind the core interfaces: zerolog
// logging, the Prometheus and InfluxDB metrics sinks, Sentry monitoring and
// the MQTT plan publisher.
package infra
