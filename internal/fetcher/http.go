package fetcher

import (
	"net/http"
	"time"
)

// defaultTimeout is the per-request timeout from spec §4.1 ("Timeout 15 s").
const defaultTimeout = 15 * time.Second

// defaultUserAgent presents as a desktop Chrome browser, per spec §4.1
// ("a browser-like User-Agent"), to avoid naive bot blocking on the
// ticketing sites.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// defaultAcceptLanguage is Korean-first, per spec §4.1 ("Korean
// Accept-Language").
const defaultAcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"

// HTTPFetcher is the base Fetcher: a plain http.Client with the crawler's
// fixed timeout, redirect-following enabled, and default headers filled in
// when the caller hasn't already set them.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher builds an HTTPFetcher with the spec's fixed 15s timeout.
// Redirects are followed using net/http's default policy.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Do issues req, filling in a browser-like User-Agent and Korean
// Accept-Language when the caller left them unset.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", defaultAcceptLanguage)
	}
	return h.client.Do(req)
}
