// Package crawler implements the per-site ticketing crawlers (C1): stateless
// operations that take an artist name and return that site's raw concert
// listings, never propagating a per-site failure past their own boundary.
package crawler

import (
	"net/url"

	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/fetcher"
	applog "github.com/hallyusync/concert-sync/internal/applog"
)

// Crawler searches a single ticketing site for an artist's upcoming
// concerts. Implementations never return an error — per spec §4.1, any
// failure (network, parse, unexpected structure) is logged and swallowed,
// yielding an empty result for that site alone.
type Crawler interface {
	// SourceName identifies the site, used as RawConcertData.SourceSite.
	SourceName() string
	Search(artistName string) []concert.RawConcertData
}

// Registry holds crawlers in registration order — the order C3's
// orchestrator both fans out to and concatenates results in.
type Registry struct {
	crawlers []Crawler
}

// NewRegistry builds a Registry from crawlers, preserving call order.
func NewRegistry(crawlers ...Crawler) *Registry {
	return &Registry{crawlers: crawlers}
}

// All returns the registered crawlers in registration order.
func (r *Registry) All() []Crawler {
	return r.crawlers
}

// newFetcher builds the shared fetch pipeline every crawler issues requests
// through: a plain HTTP client decorated with the spec's retry policy.
func newFetcher() fetcher.Fetcher {
	return fetcher.NewRetryFetcher(fetcher.NewHTTPFetcher())
}

// logSwallowedError records a per-site failure the crawler is about to
// swallow, tagged with its source name so C3's aggregate logs stay
// attributable.
func logSwallowedError(sourceName, artistName string, err error) {
	applog.WithComponentAndFields("crawler."+sourceName, applog.Fields{
		"artist_name": artistName,
		"error":       err.Error(),
	}).Warn("크롤링 실패 — 빈 결과로 대체합니다")
}

// searchQuery URL-encodes artistName for embedding in a site's search URL.
func searchQuery(artistName string) string {
	return url.QueryEscape(artistName)
}
