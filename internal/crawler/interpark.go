package crawler

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/fetcher"
	"github.com/hallyusync/concert-sync/internal/scraper"
)

const interparkSearchURL = "https://tickets.interpark.com/contents/search"

// Interpark crawls tickets.interpark.com, per spec §4.1: items live under
// anchors whose class name contains TicketItem_ticketItem.
type Interpark struct {
	fetcher fetcher.Fetcher
}

var _ Crawler = (*Interpark)(nil)

func NewInterpark() *Interpark {
	return &Interpark{fetcher: newFetcher()}
}

func (c *Interpark) SourceName() string { return "interpark" }

func (c *Interpark) Search(artistName string) []concert.RawConcertData {
	url := fmt.Sprintf("%s?keyword=%s", interparkSearchURL, searchQuery(artistName))

	doc, err := scraper.FetchDocument(c.fetcher, url)
	if err != nil {
		logSwallowedError(c.SourceName(), artistName, err)
		return nil
	}

	var results []concert.RawConcertData
	doc.Find("a[class*='TicketItem_ticketItem']").Each(func(_ int, item *goquery.Selection) {
		if data, ok := c.parseItem(item, artistName); ok {
			results = append(results, data)
		}
	})
	return results
}

func (c *Interpark) parseItem(item *goquery.Selection, artistName string) (concert.RawConcertData, bool) {
	title, _ := item.Attr("data-prd-name")
	if title == "" {
		title = scraper.FirstNonEmpty(item, "[class*='TicketItem_goodsName']")
	}
	if title == "" {
		return concert.RawConcertData{}, false
	}

	var bookingURL string
	if prdNo, ok := item.Attr("data-prd-no"); ok && prdNo != "" {
		bookingURL = fmt.Sprintf("https://tickets.interpark.com/goods/%s", prdNo)
	}

	return concert.RawConcertData{
		Title:      title,
		ArtistName: artistName,
		SourceSite: c.SourceName(),
		Venue:      scraper.FirstNonEmpty(item, "[class*='TicketItem_placeName']"),
		Date:       scraper.FirstNonEmpty(item, "[class*='TicketItem_playDate']"),
		BookingURL: bookingURL,
	}, true
}
