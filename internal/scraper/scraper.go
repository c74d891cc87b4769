// Package scraper fetches an HTML page through a fetcher.Fetcher and parses
// it into a goquery.Document, decoding non-UTF-8 charsets (EUC-KR is common
// among the Korean ticketing sites) along the way.
package scraper

import (
	"net/http"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/hallyusync/concert-sync/internal/fetcher"
	"golang.org/x/net/html/charset"
)

// FetchDocument issues a GET against rawURL through f and parses the
// response body into a goquery.Document, transcoding to UTF-8 based on the
// response's Content-Type header.
func FetchDocument(f fetcher.Fetcher, rawURL string) (*goquery.Document, error) {
	resp, err := fetcher.Get(f, rawURL)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrExecutionFailed, "페이지(%s) 요청 중 오류가 발생했습니다", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.ErrExecutionFailed, "페이지(%s) 요청이 실패했습니다. 상태 코드: %s", rawURL, resp.Status)
	}

	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrExecutionFailed, "페이지(%s)의 인코딩 변환에 실패했습니다", rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrExecutionFailed, "페이지(%s) 파싱에 실패했습니다", rawURL)
	}
	if resp.Request != nil {
		doc.Url = resp.Request.URL
	}

	return doc, nil
}

// FirstNonEmpty returns the text of the first selector (in order) that
// matches a non-empty result under sel — the crawlers' primary/fallback CSS
// selector pattern.
func FirstNonEmpty(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := trimmedText(sel, s); text != "" {
			return text
		}
	}
	return ""
}

func trimmedText(sel *goquery.Selection, selector string) string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return ""
	}
	return collapseSpace(found.Text())
}

// collapseSpace trims and squashes internal whitespace, since scraped HTML
// text nodes frequently carry newlines and run-on indentation.
func collapseSpace(s string) string {
	var b []byte
	lastSpace := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		isSpace := c == ' ' || c == '\t' || c == '\n' || c == '\r'
		if isSpace {
			if !lastSpace {
				b = append(b, ' ')
			}
			lastSpace = true
			continue
		}
		b = append(b, c)
		lastSpace = false
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}
