// Package filter implements C2: the three pure transformations applied to a
// crawl's raw results before they reach the analyzer — date-range
// expansion, non-concert exclusion, and past-event exclusion. Per spec
// §4.2/§9, this package is invoked once at the C3 orchestrator boundary
// rather than per-crawler, unlike the uneven per-site filtering it
// supersedes.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hallyusync/concert-sync/internal/concert"
)

// excludeKeywords are Korean performance categories that are not concerts.
var excludeKeywords = []string{
	"연극", "뮤지컬", "전시", "오페라", "발레",
	"클래식", "국악", "아동", "어린이", "키즈",
}

var datePattern = regexp.MustCompile(`(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})`)

// Apply runs the three transformations in order: date-range expansion,
// non-concert exclusion, then past-event exclusion (evaluated against
// today).
func Apply(items []concert.RawConcertData, today time.Time) []concert.RawConcertData {
	expanded := expandDateRanges(items)

	filtered := make([]concert.RawConcertData, 0, len(expanded))
	for _, item := range expanded {
		if !isConcertTitle(item.Title) {
			continue
		}
		if isPastEvent(item.Date, today) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// expandDateRanges emits one copy per date match when an item's Date field
// contains more than one YYYY[.-/]M[M][.-/]D[D] occurrence, rewriting each
// copy's Date to a zero-padded YYYY.MM.DD. Items with zero or one match pass
// through unchanged.
func expandDateRanges(items []concert.RawConcertData) []concert.RawConcertData {
	expanded := make([]concert.RawConcertData, 0, len(items))
	for _, item := range items {
		matches := datePattern.FindAllStringSubmatch(item.Date, -1)
		if len(matches) <= 1 {
			expanded = append(expanded, item)
			continue
		}
		for _, m := range matches {
			copyItem := item
			copyItem.Date = normalizeDate(m)
			expanded = append(expanded, copyItem)
		}
	}
	return expanded
}

// isConcertTitle reports false when title contains a non-concert category
// keyword.
func isConcertTitle(title string) bool {
	for _, kw := range excludeKeywords {
		if strings.Contains(title, kw) {
			return false
		}
	}
	return true
}

// IsPastEvent is isPastEvent, exported for other components (e.g. the LLM
// analyzer's Mode B defaults, the pipeline's post-analysis filter) that need
// the same past-event rule applied to a single date string.
func IsPastEvent(dateStr string, today time.Time) bool {
	return isPastEvent(dateStr, today)
}

// isPastEvent reports whether dateStr's last YYYY[.-/]M[M][.-/]D[D] match
// (the end date, for ranges) is before today. An unparseable or empty
// dateStr is never considered past.
func isPastEvent(dateStr string, today time.Time) bool {
	matches := datePattern.FindAllStringSubmatch(dateStr, -1)
	if len(matches) == 0 {
		return false
	}

	last := matches[len(matches)-1]
	y, errY := strconv.Atoi(last[1])
	m, errM := strconv.Atoi(last[2])
	d, errD := strconv.Atoi(last[3])
	if errY != nil || errM != nil || errD != nil {
		return false
	}

	end := time.Date(y, time.Month(m), d, 0, 0, 0, 0, today.Location())
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return end.Before(todayDate)
}

func normalizeDate(m []string) string {
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%04d.%02d.%02d", y, mo, d)
}
