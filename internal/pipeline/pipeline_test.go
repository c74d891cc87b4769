package pipeline

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/hallyusync/concert-sync/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	items []concert.RawConcertData
}

func (s stubSearcher) Search(string) []concert.RawConcertData { return s.items }

type stubAnalyzer struct {
	results []concert.ConcertSearchResult
}

func (s stubAnalyzer) Analyze(context.Context, string, []concert.RawConcertData) []concert.ConcertSearchResult {
	return s.results
}

func TestSyncOne_PersistsRawAndRefined(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO crawled_data`)
	mock.ExpectExec(`INSERT INTO crawled_data`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO concert_search_results`)
	mock.ExpectExec(`INSERT INTO concert_search_results`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	searcher := stubSearcher{items: []concert.RawConcertData{
		{Title: "아이유 콘서트", SourceSite: "interpark", Date: "2099.01.01", BookingURL: "https://a/1"},
	}}
	analyzer := stubAnalyzer{results: []concert.ConcertSearchResult{
		{ConcertTitle: "아이유 콘서트", ConcertDate: "2099-01-01", BookingURL: "https://a/1"},
	}}

	p := New(searcher, analyzer, conn, db.NewCrawledDataRepository(conn, config.DialectPostgres), db.NewConcertSearchResultRepository(conn, config.DialectPostgres))

	count, err := p.SyncOne(context.Background(), concert.Artist{ID: 1, Name: "아이유"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncOne_DropsPastEventsAndModeBInjections(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO crawled_data`)
	mock.ExpectExec(`INSERT INTO crawled_data`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	searcher := stubSearcher{items: []concert.RawConcertData{
		{Title: "아이유 콘서트", SourceSite: "interpark", Date: "2099.01.01", BookingURL: "https://a/1"},
	}}
	analyzer := stubAnalyzer{results: []concert.ConcertSearchResult{
		{ConcertTitle: "지난 공연", ConcertDate: "2020-01-01", BookingURL: "https://a/1"},
		{ConcertTitle: "모델이 끼워넣은 결과", Source: concert.SourceAISearch, DataSources: concert.DataSourceAIOnly, ConcertDate: "2099-01-01"},
	}}

	p := New(searcher, analyzer, conn, db.NewCrawledDataRepository(conn, config.DialectPostgres), db.NewConcertSearchResultRepository(conn, config.DialectPostgres))

	count, err := p.SyncOne(context.Background(), concert.Artist{ID: 1, Name: "아이유"})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSyncOne_NilAnalyzerSkipsRefinement(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO crawled_data`)
	mock.ExpectExec(`INSERT INTO crawled_data`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	searcher := stubSearcher{items: []concert.RawConcertData{
		{Title: "아이유 콘서트", SourceSite: "interpark", Date: "2099.01.01"},
	}}

	p := New(searcher, nil, conn, db.NewCrawledDataRepository(conn, config.DialectPostgres), db.NewConcertSearchResultRepository(conn, config.DialectPostgres))

	count, err := p.SyncOne(context.Background(), concert.Artist{ID: 1, Name: "아이유"})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
