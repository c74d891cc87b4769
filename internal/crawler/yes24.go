package crawler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/fetcher"
	"github.com/hallyusync/concert-sync/internal/scraper"
)

const yes24SearchURL = "https://ticket.yes24.com/search"

var yes24DatePattern = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}`)

// Yes24 crawls ticket.yes24.com. Its item markup carries no class hooks for
// date/venue — per spec §4.1 they're recovered from text-only direct-child
// div elements (those with no element children): the one matching a
// YYYY.MM.DD date is the date, any other non-empty one is the venue.
type Yes24 struct {
	fetcher fetcher.Fetcher
}

var _ Crawler = (*Yes24)(nil)

func NewYes24() *Yes24 {
	return &Yes24{fetcher: newFetcher()}
}

func (c *Yes24) SourceName() string { return "yes24" }

func (c *Yes24) Search(artistName string) []concert.RawConcertData {
	url := fmt.Sprintf("%s/%s", yes24SearchURL, searchQuery(artistName))

	doc, err := scraper.FetchDocument(c.fetcher, url)
	if err != nil {
		logSwallowedError(c.SourceName(), artistName, err)
		return nil
	}

	var results []concert.RawConcertData
	doc.Find(".srch-list-item").Each(func(_ int, item *goquery.Selection) {
		if style, ok := item.Attr("style"); ok && strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none") {
			return
		}
		if data, ok := c.parseItem(item, artistName); ok {
			results = append(results, data)
		}
	})
	return results
}

func (c *Yes24) parseItem(item *goquery.Selection, artistName string) (concert.RawConcertData, bool) {
	titleEl := item.Find(".item-tit a").First()
	if titleEl.Length() == 0 {
		return concert.RawConcertData{}, false
	}
	title := strings.Join(strings.Fields(titleEl.Text()), " ")
	if title == "" {
		return concert.RawConcertData{}, false
	}

	href, _ := titleEl.Attr("href")
	if href != "" && !strings.HasPrefix(href, "http") {
		href = "https://ticket.yes24.com" + href
	}

	var date, venue string
	item.ChildrenFiltered("div").Each(func(_ int, div *goquery.Selection) {
		if div.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(div.Text())
		if text == "" {
			return
		}
		if yes24DatePattern.MatchString(text) {
			date = text
		} else {
			venue = text
		}
	})

	return concert.RawConcertData{
		Title:      title,
		ArtistName: artistName,
		SourceSite: c.SourceName(),
		Venue:      venue,
		Date:       date,
		BookingURL: href,
	}, true
}
