// Package fetcher provides the HTTP client abstraction the crawlers (C1)
// fetch through: a plain Fetcher interface, an HTTPFetcher implementation
// with a browser-like User-Agent, and a RetryFetcher decorator implementing
// the exponential-backoff policy from spec §4.1.
package fetcher

import (
	"net/http"
)

// component is the applog component tag for this package's log entries.
const component = "fetcher"

// Fetcher performs an HTTP request. Implementations may be composed —
// RetryFetcher wraps another Fetcher to add retry behavior.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get builds and issues a GET request through f.
func Get(f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return f.Do(req)
}
