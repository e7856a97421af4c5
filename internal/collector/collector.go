package collector

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/modwatch/modwatch/internal/fetch"
	"github.com/modwatch/modwatch/internal/metrics"
	"github.com/modwatch/modwatch/internal/status"
)

// Collector runs collection cycles over a fixed set of targets, writing
// results into the shared metric registry.
type Collector struct {
	reg      *metrics.Registry
	fetchers []*fetch.Fetcher
	interval time.Duration

	// verbose can be flipped live by a config reload while cycles run.
	verbose atomic.Bool
}

// New creates a Collector. The fetcher set is fixed for the Collector's
// lifetime; each fetcher's label must be unique so that no two units of
// work within a cycle write the same hostname series.
func New(reg *metrics.Registry, fetchers []*fetch.Fetcher, interval time.Duration, verbose bool) *Collector {
	c := &Collector{reg: reg, fetchers: fetchers, interval: interval}
	c.verbose.Store(verbose)
	return c
}

// SetVerbose toggles per-target logging. Safe to call concurrently with a
// running cycle.
func (c *Collector) SetVerbose(v bool) {
	c.verbose.Store(v)
}

// Collect runs exactly one collection cycle: every target is fetched
// concurrently, parsed and projected, and the call returns only once all
// targets have completed or failed.
//
// Failures are contained at the per-target boundary: they are logged with
// the target's label, counted on the scrape error counter and reflected in
// the up gauge. A failed target keeps its previous apache_* gauge values —
// nothing is zeroed — and never cancels another target's in-flight fetch.
func (c *Collector) Collect(ctx context.Context) {
	var g errgroup.Group
	for _, f := range c.fetchers {
		f := f
		g.Go(func() error {
			c.collectTarget(ctx, f)
			return nil
		})
	}
	// Units never return errors; Wait is purely the fan-in point.
	_ = g.Wait()
}

// collectTarget is one unit of work: fetch, parse, project.
func (c *Collector) collectTarget(ctx context.Context, f *fetch.Fetcher) {
	body, err := f.Fetch(ctx)
	if err != nil {
		slog.Warn("collector: fetch failed", "target", f.Label(), "err", err)
		c.reg.ScrapeErrors.WithLabelValues(f.Label()).Inc()
		c.reg.Up.WithLabelValues(f.Label()).Set(0)
		return
	}

	c.project(f.Label(), status.Parse(body))
	c.reg.Up.WithLabelValues(f.Label()).Set(1)
}

// Run executes collection cycles until ctx is cancelled. The first cycle
// starts immediately; after each fan-in the loop blocks for one interval
// before the next cycle, so cycles never overlap regardless of how long a
// cycle takes.
func (c *Collector) Run(ctx context.Context) {
	for {
		c.Collect(ctx)

		if c.verbose.Load() {
			slog.Info("collector: cycle complete — sleeping", "interval", c.interval)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.interval):
		}
	}
}
