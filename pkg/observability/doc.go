/*
Package observability turns bootstrap lifecycle events into Prometheus metrics.

Metrics are fed by domain.LifecycleHooks, so the bootstrapper never depends on Prometheus
directly. They can be scraped over HTTP (sprout serve) or written to a node-exporter
textfile after a run (metrics.textfile setting).
*/
package observability
