package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/fetcher"
	"github.com/hallyusync/concert-sync/internal/scraper"
)

const melonSearchURL = "https://ticket.melon.com/search/index.htm"

// Melon crawls ticket.melon.com, per spec §4.1: primary item selectors with
// a broader class-substring fallback when they yield nothing.
type Melon struct {
	fetcher fetcher.Fetcher
}

var _ Crawler = (*Melon)(nil)

func NewMelon() *Melon {
	return &Melon{fetcher: newFetcher()}
}

func (c *Melon) SourceName() string { return "melon" }

func (c *Melon) Search(artistName string) []concert.RawConcertData {
	url := fmt.Sprintf("%s?q=%s", melonSearchURL, searchQuery(artistName+" 콘서트"))

	doc, err := scraper.FetchDocument(c.fetcher, url)
	if err != nil {
		logSwallowedError(c.SourceName(), artistName, err)
		return nil
	}

	items := doc.Find(".list_ticket li, .search_list li, .result_list li")
	if items.Length() == 0 {
		items = doc.Find("[class*='concert'], [class*='ticket'], [class*='product']")
	}

	var results []concert.RawConcertData
	items.Each(func(_ int, item *goquery.Selection) {
		if data, ok := c.parseItem(item, artistName); ok {
			results = append(results, data)
		}
	})
	return results
}

func (c *Melon) parseItem(item *goquery.Selection, artistName string) (concert.RawConcertData, bool) {
	titleEl := item.Find(".tit a, .title a, a.name, h4 a, a[class*='tit']").First()
	if titleEl.Length() == 0 {
		return concert.RawConcertData{}, false
	}
	title := strings.TrimSpace(titleEl.Text())
	if title == "" {
		return concert.RawConcertData{}, false
	}

	href, _ := titleEl.Attr("href")
	if href != "" && !strings.HasPrefix(href, "http") {
		href = "https://ticket.melon.com" + href
	}

	return concert.RawConcertData{
		Title:      title,
		ArtistName: artistName,
		SourceSite: c.SourceName(),
		Venue:      scraper.FirstNonEmpty(item, ".venue, .place, [class*='venue'], [class*='place']"),
		Date:       scraper.FirstNonEmpty(item, ".date, .period, [class*='date'], [class*='period']"),
		Price:      scraper.FirstNonEmpty(item, ".price, [class*='price']"),
		BookingURL: href,
	}, true
}
