// Package server is the exporter's HTTP listener: the Prometheus text
// exposition on /metrics and a trivial /healthz. It owns nothing but the
// http.Server; all metric state lives in the registry handed to New.
package server
