package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/fetcher"
	"github.com/hallyusync/concert-sync/internal/scraper"
)

const ticketLinkSearchURL = "https://www.ticketlink.co.kr/search"

// TicketLink crawls ticketlink.co.kr — selectors analogous to Melon, per
// spec §4.1, with the ticketlink.co.kr URL prefix.
type TicketLink struct {
	fetcher fetcher.Fetcher
}

var _ Crawler = (*TicketLink)(nil)

func NewTicketLink() *TicketLink {
	return &TicketLink{fetcher: newFetcher()}
}

func (c *TicketLink) SourceName() string { return "ticketlink" }

func (c *TicketLink) Search(artistName string) []concert.RawConcertData {
	url := fmt.Sprintf("%s?keyword=%s", ticketLinkSearchURL, searchQuery(artistName+" 콘서트"))

	doc, err := scraper.FetchDocument(c.fetcher, url)
	if err != nil {
		logSwallowedError(c.SourceName(), artistName, err)
		return nil
	}

	items := doc.Find(".search_result li, .product_list li, .list_item, .search_list li, .event_list li, .prd_list li")
	if items.Length() == 0 {
		items = doc.Find("[class*='product'], [class*='event'], [class*='concert'], [class*='ticket'], [class*='search'] li")
	}

	var results []concert.RawConcertData
	items.Each(func(_ int, item *goquery.Selection) {
		if data, ok := c.parseItem(item, artistName); ok {
			results = append(results, data)
		}
	})
	return results
}

func (c *TicketLink) parseItem(item *goquery.Selection, artistName string) (concert.RawConcertData, bool) {
	titleEl := item.Find("a.prd_name, .tit a, .title a, .event_name a, h3 a, h4 a, .name a, a[class*='tit'], a[class*='name']").First()
	if titleEl.Length() == 0 {
		return concert.RawConcertData{}, false
	}
	title := strings.TrimSpace(titleEl.Text())
	if title == "" {
		return concert.RawConcertData{}, false
	}

	href, _ := titleEl.Attr("href")
	if href != "" && !strings.HasPrefix(href, "http") {
		href = "https://www.ticketlink.co.kr" + href
	}

	return concert.RawConcertData{
		Title:      title,
		ArtistName: artistName,
		SourceSite: c.SourceName(),
		Venue:      scraper.FirstNonEmpty(item, ".venue, .place, .location, [class*='venue'], [class*='place'], [class*='location']"),
		Date:       scraper.FirstNonEmpty(item, ".date, .period, .schedule, [class*='date'], [class*='period'], [class*='schedule']"),
		Price:      scraper.FirstNonEmpty(item, ".price, [class*='price']"),
		BookingURL: href,
	}, true
}
