package db

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawledDataRepository_InsertAll(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO crawled_data`)
	mock.ExpectExec(`INSERT INTO crawled_data`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO crawled_data`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := NewCrawledDataRepository(conn, config.DialectPostgres)
	tx, err := conn.Begin()
	require.NoError(t, err)

	items := []concert.RawConcertData{
		{Title: "공연1", SourceSite: "interpark"},
		{Title: "공연2", SourceSite: "melon"},
	}
	require.NoError(t, repo.InsertAll(context.Background(), tx, 1, "아이유", items))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCrawledDataRepository_ListByArtistName_NoFilter(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	cols := []string{"id", "artist_keyword_id", "artist_name", "source_site", "title", "venue", "date", "time", "price", "booking_url", "crawled_at"}
	rows := sqlmock.NewRows(cols).AddRow(int64(1), int64(1), "아이유", "interpark", "공연", "", "", "", "", "", time.Now())
	mock.ExpectQuery(`SELECT .* FROM crawled_data ORDER BY crawled_at DESC`).WillReturnRows(rows)

	repo := NewCrawledDataRepository(conn, config.DialectPostgres)
	out, err := repo.ListByArtistName(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 1)
}
