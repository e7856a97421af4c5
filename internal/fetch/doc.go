// Package fetch retrieves raw status text from monitored endpoints.
//
// A Fetcher is built once per target and reused across cycles. It owns an
// http.Client whose transport carries the target's resolved proxy settings
// (per-scheme http/https pair), a 10 second timeout and a 1MB body cap.
// Fetch performs exactly one GET per call — retries are the scheduler's
// problem, and it chooses not to have any.
//
// EnsureAutoParam normalizes target URLs so the remote status handler emits
// machine-parsable text instead of an HTML page.
package fetch
