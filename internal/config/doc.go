// Package config loads and watches the exporter configuration file.
//
// Top-level types:
//   - Config — listen_addr, scrape_interval_seconds, verbose, global proxy,
//     targets []
//   - Target — label, url, optional per-target proxy override;
//     EffectiveProxy(global) resolves the pair actually used for fetching
//   - ProxyConfig — optional http/https proxy URL pair; empty means direct
//
// Load(path) reads the YAML file, applies defaults (listen on
// 127.0.0.1:9081, poll every 300s), then validates required fields, unique
// target labels and proxy URL syntax. A bad config file is the only fatal
// error in the exporter; everything after startup is logged and survived.
//
// Watch(ctx, path, current, onChange) uses fsnotify to detect file changes
// and calls onChange with the newly parsed Config. It handles the
// rename→create pattern used by atomic-save editors by re-adding the watch
// after the event. The target set is fixed for the process lifetime:
// callers apply only the verbose flag from a reloaded config, and Watch
// warns when a reload touches any restart-only setting
// (FixedSettingsChanged).
package config
