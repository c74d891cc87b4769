package sync

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/hallyusync/concert-sync/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	counts map[string]int
	err    error
}

func (s stubRunner) SyncOne(_ context.Context, artist concert.Artist) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[artist.Name], nil
}

func TestSyncAll_SkipsAlreadySyncedArtists(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT id, name FROM artists ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "아이유").AddRow(int64(2), "BTS"))
	mock.ExpectQuery(`SELECT DISTINCT artist_keyword_id FROM concert_search_results`).
		WillReturnRows(sqlmock.NewRows([]string{"artist_keyword_id"}).AddRow(int64(1)))

	svc := New(
		stubRunner{counts: map[string]int{"BTS": 3}},
		conn,
		db.NewArtistRepository(conn, config.DialectPostgres),
		db.NewCrawledDataRepository(conn, config.DialectPostgres),
		db.NewConcertSearchResultRepository(conn, config.DialectPostgres),
	)

	result, err := svc.SyncAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalArtists)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 3, result.ConcertsFound)
}

func TestSyncAll_ForceResyncsDeletesThenRuns(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT id, name FROM artists ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "아이유"))
	mock.ExpectQuery(`SELECT DISTINCT artist_keyword_id FROM concert_search_results`).
		WillReturnRows(sqlmock.NewRows([]string{"artist_keyword_id"}).AddRow(int64(1)))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM concert_search_results`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM crawled_data`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := New(
		stubRunner{counts: map[string]int{"아이유": 5}},
		conn,
		db.NewArtistRepository(conn, config.DialectPostgres),
		db.NewCrawledDataRepository(conn, config.DialectPostgres),
		db.NewConcertSearchResultRepository(conn, config.DialectPostgres),
	)

	result, err := svc.SyncAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 5, result.ConcertsFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncByArtistName_NotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT id, name FROM artists WHERE name = \$1`).
		WithArgs("없는아티스트").
		WillReturnError(sql.ErrNoRows)

	svc := New(
		stubRunner{},
		conn,
		db.NewArtistRepository(conn, config.DialectPostgres),
		db.NewCrawledDataRepository(conn, config.DialectPostgres),
		db.NewConcertSearchResultRepository(conn, config.DialectPostgres),
	)

	_, ok, err := svc.SyncByArtistName(context.Background(), "없는아티스트", false)
	require.NoError(t, err)
	assert.False(t, ok)
}
