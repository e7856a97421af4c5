package collector

import (
	"log/slog"
	"strconv"
)

// Status field names as they appear in mod_status ?auto output.
const (
	fieldTotalAccesses = "Total Accesses"
	fieldCPULoad       = "CPULoad"
	fieldUptime        = "Uptime"
	fieldReqPerSec     = "ReqPerSec"
	fieldBytesPerSec   = "BytesPerSec"
	fieldBusyWorkers   = "BusyWorkers"
	fieldIdleWorkers   = "IdleWorkers"
)

// project maps one target's parsed status fields onto its gauges.
//
// Coercion policy: a field that is absent or non-numeric projects as 0, per
// field — the projection itself never fails, so a target's gauges are
// always fully rewritten from the latest successful fetch. A present but
// unparsable value additionally logs a warning naming the field.
func (c *Collector) project(label string, fields map[string]string) {
	if c.verbose.Load() {
		slog.Info("collector: updating metrics", "target", label)
	}

	c.reg.TotalAccesses.WithLabelValues(label).Set(c.floatField(label, fields, fieldTotalAccesses))
	c.reg.CPULoad.WithLabelValues(label).Set(c.floatField(label, fields, fieldCPULoad))
	c.reg.Uptime.WithLabelValues(label).Set(c.floatField(label, fields, fieldUptime))
	c.reg.ReqPerSec.WithLabelValues(label).Set(c.floatField(label, fields, fieldReqPerSec))
	c.reg.BytesPerSec.WithLabelValues(label).Set(c.floatField(label, fields, fieldBytesPerSec))

	busy := c.intField(label, fields, fieldBusyWorkers)
	idle := c.intField(label, fields, fieldIdleWorkers)
	c.reg.BusyWorkers.WithLabelValues(label).Set(float64(busy))
	c.reg.IdleWorkers.WithLabelValues(label).Set(float64(idle))

	// Busy-to-idle ratio; with no idle workers the ratio degenerates to the
	// busy count rather than dividing by zero.
	ratio := float64(busy)
	if idle > 0 {
		ratio = float64(busy) / float64(idle)
	}
	c.reg.WorkerRatio.WithLabelValues(label).Set(ratio)
}

// floatField reads a numeric status field, substituting 0 when the field is
// absent or does not parse.
func (c *Collector) floatField(label string, fields map[string]string, key string) float64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("collector: non-numeric status field — using 0",
			"target", label, "field", key, "value", raw)
		return 0
	}
	return v
}

// intField reads an integral status field, substituting 0 when the field is
// absent or does not parse.
func (c *Collector) intField(label string, fields map[string]string, key string) int64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("collector: non-numeric status field — using 0",
			"target", label, "field", key, "value", raw)
		return 0
	}
	return v
}
