// Package status parses the line-oriented "Key: Value" text that Apache's
// mod_status emits when queried with ?auto. Parsing is deliberately
// tolerant: malformed lines are skipped rather than failing the scrape,
// since the format carries free-form lines (Scoreboard) alongside the
// numeric fields the exporter cares about.
package status
