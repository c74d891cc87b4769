// Package concert holds the pipeline's core data model (spec §3): the
// read-only Artist, the per-site RawConcertData a crawler produces, and the
// two persisted row shapes (CrawledData, ConcertSearchResult).
package concert

import "time"

// Artist is a row read from the source database. It is immutable to this
// system — never written back.
type Artist struct {
	ID   int64
	Name string
}

// RawConcertData is one crawler's observation of a potential concert. Its
// identity, when stable, is (SourceSite, BookingURL); items without a
// booking URL have no stable identity across crawls.
type RawConcertData struct {
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
	SourceSite string `json:"source_site"`
	Venue      string `json:"venue"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Price      string `json:"price"`
	BookingURL string `json:"booking_url"`
}

// CrawledData is one persisted raw observation — append-only, never
// updated after insert.
type CrawledData struct {
	ID              int64     `json:"id"`
	ArtistKeywordID int64     `json:"artist_keyword_id"`
	ArtistName      string    `json:"artist_name"`
	SourceSite      string    `json:"source_site"`
	Title           string    `json:"title"`
	Venue           string    `json:"venue"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Price           string    `json:"price"`
	BookingURL      string    `json:"booking_url"`
	CrawledAt       time.Time `json:"crawled_at"`
}

// ConcertSearchResult is the LLM-refined concert record persisted per spec
// §3. RawResponse preserves the model's original per-item JSON verbatim, in
// both Mode A and Mode B — it is never derived by re-marshaling this struct.
type ConcertSearchResult struct {
	ID              int64     `json:"id"`
	ArtistKeywordID int64     `json:"artist_keyword_id"`
	ArtistName      string    `json:"artist_name"`
	ConcertTitle    string    `json:"concert_title"`
	Venue           string    `json:"venue"`
	ConcertDate     string    `json:"concert_date"`
	ConcertTime     string    `json:"concert_time"`
	TicketPrice     string    `json:"ticket_price"`
	BookingDate     string    `json:"booking_date"`
	BookingURL      string    `json:"booking_url"`
	Source          string    `json:"source"`
	Confidence      float64   `json:"confidence"`
	DataSources     string    `json:"data_sources"`
	IsVerified      bool      `json:"is_verified"`
	RawResponse     string    `json:"raw_response"`
	SyncedAt        time.Time `json:"synced_at"`
}

// Provenance tags used in Source/DataSources, per spec §3/§4.4.
const (
	SourceCrawlAI       = "crawl+ai"
	SourceCrawlAISearch = "crawl+ai_search"
	SourceAISearch      = "ai_search"

	DataSourceAIOnly = "ai_only"
)
