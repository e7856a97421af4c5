package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultListenAddr            = "127.0.0.1:9081"
	DefaultScrapeIntervalSeconds = 300
)

// Config is the top-level exporter configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	// ListenAddr is the host:port the metrics endpoint binds to.
	ListenAddr string `yaml:"listen_addr"`

	// ScrapeIntervalSeconds controls how often each target is polled.
	ScrapeIntervalSeconds int `yaml:"scrape_interval_seconds"`

	// Verbose enables per-target log lines during collection.
	// This is the only field applied live by Watch; everything else
	// requires a restart.
	Verbose bool `yaml:"verbose"`

	// Proxy holds the default proxy URLs used for targets that do not
	// define their own.
	Proxy ProxyConfig `yaml:"proxy"`

	// Targets is the list of status endpoints to monitor.
	// The set is fixed for the process lifetime.
	Targets []Target `yaml:"targets"`
}

// Interval returns the scrape interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.ScrapeIntervalSeconds) * time.Second
}

// Target describes one monitored status endpoint.
type Target struct {
	// Label is a unique, human-readable identifier for this target.
	// It becomes the hostname label on every exported metric.
	Label string `yaml:"label"`

	// URL is the full URL of the target's status page. The auto query
	// parameter is added automatically if missing.
	URL string `yaml:"url"`

	// Proxy overrides the global proxy settings for this target.
	// Each field falls back to the global value independently.
	Proxy ProxyConfig `yaml:"proxy"`
}

// ProxyConfig is an optional pair of proxy URLs, one per scheme.
// Empty fields mean direct connection.
type ProxyConfig struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// EffectiveProxy resolves the proxy pair for this target: the target's own
// value per scheme, else the global default, else direct.
func (t Target) EffectiveProxy(global ProxyConfig) ProxyConfig {
	p := t.Proxy
	if p.HTTP == "" {
		p.HTTP = global.HTTP
	}
	if p.HTTPS == "" {
		p.HTTPS = global.HTTPS
	}
	return p
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		ListenAddr:            DefaultListenAddr,
		ScrapeIntervalSeconds: DefaultScrapeIntervalSeconds,
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if cfg.ScrapeIntervalSeconds <= 0 {
		return fmt.Errorf("scrape_interval_seconds must be positive")
	}
	if err := validateProxy("proxy", cfg.Proxy); err != nil {
		return err
	}
	if len(cfg.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	seen := make(map[string]bool, len(cfg.Targets))
	for i, t := range cfg.Targets {
		if t.Label == "" {
			return fmt.Errorf("targets[%d]: label is required", i)
		}
		if seen[t.Label] {
			return fmt.Errorf("targets[%d]: duplicate label %q", i, t.Label)
		}
		seen[t.Label] = true

		if t.URL == "" {
			return fmt.Errorf("targets[%d] %q: url is required", i, t.Label)
		}
		if _, err := url.Parse(t.URL); err != nil {
			return fmt.Errorf("targets[%d] %q: invalid url: %w", i, t.Label, err)
		}
		if err := validateProxy(fmt.Sprintf("targets[%d] %q: proxy", i, t.Label), t.Proxy); err != nil {
			return err
		}
	}
	return nil
}

// validateProxy checks that non-empty proxy URLs parse and carry a scheme.
func validateProxy(where string, p ProxyConfig) error {
	for scheme, raw := range map[string]string{"http": p.HTTP, "https": p.HTTPS} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s.%s: invalid url: %w", where, scheme, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s.%s: proxy url %q must include scheme and host", where, scheme, raw)
		}
	}
	return nil
}
