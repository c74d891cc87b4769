package llm

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/filter"
)

// refinedItem mirrors the JSON shape the model is instructed to return.
type refinedItem struct {
	ConcertTitle string  `json:"concert_title"`
	Venue        string  `json:"venue"`
	ConcertDate  string  `json:"concert_date"`
	ConcertTime  string  `json:"concert_time"`
	TicketPrice  string  `json:"ticket_price"`
	BookingDate  string  `json:"booking_date"`
	BookingURL   string  `json:"booking_url"`
	Source       string  `json:"source"`
	Confidence   float64 `json:"confidence"`
	DataSources  string  `json:"data_sources"`
	IsVerified   bool    `json:"is_verified"`
}

// toConcertSearchResult converts a parsed item into the persisted shape.
// rawJSON is that item's own JSON text exactly as the model returned it,
// preserved verbatim in RawResponse rather than re-derived later by
// marshaling this struct.
func (r refinedItem) toConcertSearchResult(artistName, rawJSON string) concert.ConcertSearchResult {
	source := r.Source
	if source == "" {
		source = concert.SourceCrawlAI
	}
	return concert.ConcertSearchResult{
		ArtistName:   artistName,
		ConcertTitle: r.ConcertTitle,
		Venue:        r.Venue,
		ConcertDate:  r.ConcertDate,
		ConcertTime:  r.ConcertTime,
		TicketPrice:  r.TicketPrice,
		BookingDate:  r.BookingDate,
		BookingURL:   r.BookingURL,
		Source:       source,
		Confidence:   r.Confidence,
		DataSources:  r.DataSources,
		IsVerified:   r.IsVerified,
		RawResponse:  rawJSON,
	}
}

// parsedItem pairs a decoded refinedItem with the exact JSON text it was
// decoded from, so that text can be preserved verbatim as RawResponse.
type parsedItem struct {
	item refinedItem
	raw  string
}

// parseRefinedItems strips a ```json or ``` fence if present, then parses
// the remainder as JSON. A bare object is wrapped in a one-element array.
// Any parse failure yields an empty slice, per spec §4.4 ("parse failure
// returns [] from analyze()").
func parseRefinedItems(text string) []parsedItem {
	text = stripCodeFence(text)
	if text == "" {
		return nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &rawItems); err == nil {
		out := make([]parsedItem, 0, len(rawItems))
		for _, raw := range rawItems {
			var item refinedItem
			if err := json.Unmarshal(raw, &item); err != nil {
				continue
			}
			out = append(out, parsedItem{item: item, raw: string(raw)})
		}
		return out
	}

	var single refinedItem
	if err := json.Unmarshal([]byte(text), &single); err == nil {
		return []parsedItem{{item: single, raw: text}}
	}

	return nil
}

// stripCodeFence removes a leading ```json/``` fence and trailing ``` if
// the model wrapped its JSON in a markdown code block.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		return strings.TrimSpace(text)
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		return strings.TrimSpace(text)
	}
	return text
}

// enforceRefinedInvariant keeps |refined| <= |raw| after Mode A parsing:
// if the model over-returned, keep only items whose booking_url matches a
// crawled item; if none match, truncate to the first len(raw) items.
func enforceRefinedInvariant(refined []concert.ConcertSearchResult, raw []concert.RawConcertData) []concert.ConcertSearchResult {
	if len(refined) <= len(raw) {
		return refined
	}

	rawURLs := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		if r.BookingURL != "" {
			rawURLs[r.BookingURL] = struct{}{}
		}
	}

	matched := make([]concert.ConcertSearchResult, 0, len(raw))
	for _, item := range refined {
		if _, ok := rawURLs[item.BookingURL]; ok {
			matched = append(matched, item)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	return refined[:len(raw)]
}

// applyModeBDefaults fills the provenance fields Mode B always sets per
// spec §4.4, and drops any concert whose date has already passed.
func applyModeBDefaults(results []concert.ConcertSearchResult) []concert.ConcertSearchResult {
	out := make([]concert.ConcertSearchResult, 0, len(results))
	now := time.Now()
	for _, r := range results {
		if filter.IsPastEvent(r.ConcertDate, now) {
			continue
		}
		r.Source = concert.SourceAISearch
		r.Confidence = 0.3
		r.DataSources = concert.DataSourceAIOnly
		r.IsVerified = false
		out = append(out, r)
	}
	return out
}
