package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/modwatch/modwatch/internal/config"
)

const (
	defaultFetchTimeout = 10 * time.Second

	// maxBodySize caps the response body read. mod_status machine output is
	// a few KB; anything near this limit is not a status page.
	maxBodySize = 1 << 20
)

// StatusError reports a non-2xx response from a status endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Fetcher retrieves the raw status text for a single target.
// It is built once at startup and reused across collection cycles; the
// target's proxy settings are baked into its HTTP transport, so concurrent
// fetches for different targets cannot interfere with each other.
type Fetcher struct {
	label  string
	url    string
	client *http.Client
}

// New creates a Fetcher for the given target. The URL is normalized to
// carry the auto query parameter and the proxy pair is resolved into the
// transport. Returns an error if the URL or a proxy URL does not parse.
func New(label, rawURL string, proxy config.ProxyConfig) (*Fetcher, error) {
	normalized, err := EnsureAutoParam(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", label, err)
	}

	proxyFn, err := proxyFunc(proxy)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", label, err)
	}

	return &Fetcher{
		label: label,
		url:   normalized,
		client: &http.Client{
			Transport: &http.Transport{Proxy: proxyFn},
			Timeout:   defaultFetchTimeout,
		},
	}, nil
}

// Label returns the target's configured label.
func (f *Fetcher) Label() string { return f.label }

// URL returns the normalized URL the fetcher requests.
func (f *Fetcher) URL() string { return f.url }

// Fetch performs a single GET against the target and returns the full
// response body as text. There is no retry; one failure per cycle is
// surfaced to the caller immediately.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %q: build request: %w", f.label, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", f.label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %q: %w", f.label, &StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("fetch %q: read body: %w", f.label, err)
	}
	return string(body), nil
}

// proxyFunc builds the transport proxy callback for a resolved proxy pair.
// Returns nil (direct connection) when no proxy is configured. The callback
// picks the pair entry matching the request scheme; a missing entry means
// direct for that scheme.
func proxyFunc(p config.ProxyConfig) (func(*http.Request) (*url.URL, error), error) {
	if p.HTTP == "" && p.HTTPS == "" {
		return nil, nil
	}

	var httpProxy, httpsProxy *url.URL
	var err error
	if p.HTTP != "" {
		if httpProxy, err = url.Parse(p.HTTP); err != nil {
			return nil, fmt.Errorf("parse http proxy: %w", err)
		}
	}
	if p.HTTPS != "" {
		if httpsProxy, err = url.Parse(p.HTTPS); err != nil {
			return nil, fmt.Errorf("parse https proxy: %w", err)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" {
			return httpsProxy, nil
		}
		return httpProxy, nil
	}, nil
}
