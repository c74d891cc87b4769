package filter

import (
	"testing"
	"time"

	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func today(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
}

func TestApply_ExpandsDateRanges(t *testing.T) {
	items := []concert.RawConcertData{
		{Title: "아이유 콘서트", Date: "2026.08.01~2026.08.02~2026.08.03"},
	}

	out := Apply(items, today(t))

	require.Len(t, out, 3)
	assert.Equal(t, "2026.08.01", out[0].Date)
	assert.Equal(t, "2026.08.02", out[1].Date)
	assert.Equal(t, "2026.08.03", out[2].Date)
}

func TestApply_SingleDatePassesThroughUnchanged(t *testing.T) {
	items := []concert.RawConcertData{
		{Title: "아이유 콘서트", Date: "2026.08.01"},
	}

	out := Apply(items, today(t))

	require.Len(t, out, 1)
	assert.Equal(t, "2026.08.01", out[0].Date)
}

func TestApply_DropsNonConcertKeywords(t *testing.T) {
	items := []concert.RawConcertData{
		{Title: "뮤지컬 프랑켄슈타인", Date: "2026.08.01"},
		{Title: "아이유 콘서트", Date: "2026.08.01"},
	}

	out := Apply(items, today(t))

	require.Len(t, out, 1)
	assert.Equal(t, "아이유 콘서트", out[0].Title)
}

func TestApply_DropsPastEvents(t *testing.T) {
	items := []concert.RawConcertData{
		{Title: "지난 공연", Date: "2020.01.01"},
		{Title: "미래 공연", Date: "2026.08.01"},
	}

	out := Apply(items, today(t))

	require.Len(t, out, 1)
	assert.Equal(t, "미래 공연", out[0].Title)
}

func TestApply_PastEventRangeUsesEndDate(t *testing.T) {
	// The range expands into two single-date items first; the one whose
	// own date has passed is then dropped by the past-event check.
	items := []concert.RawConcertData{
		{Title: "걸친 공연", Date: "2020.01.01~2026.08.01"},
	}

	out := Apply(items, today(t))

	require.Len(t, out, 1)
	assert.Equal(t, "2026.08.01", out[0].Date)
}

func TestApply_UnparseableDatePassesThrough(t *testing.T) {
	items := []concert.RawConcertData{
		{Title: "날짜미정 공연", Date: "미정"},
		{Title: "날짜없음 공연"},
	}

	out := Apply(items, today(t))

	assert.Len(t, out, 2)
}
