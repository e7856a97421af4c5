// Package metrics defines the exporter's metric registry: one gauge per
// mod_status field (plus the derived worker ratio), an up gauge and a
// scrape error counter, all labeled by target hostname. The registry is an
// explicit object handed to the collector and the HTTP server rather than
// process-global state.
package metrics
