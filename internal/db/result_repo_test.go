package db

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcertSearchResultRepository_SyncedArtistIDs(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	rows := sqlmock.NewRows([]string{"artist_keyword_id"}).AddRow(int64(1)).AddRow(int64(3))
	mock.ExpectQuery(`SELECT DISTINCT artist_keyword_id FROM concert_search_results`).WillReturnRows(rows)

	repo := NewConcertSearchResultRepository(conn, config.DialectPostgres)
	ids, err := repo.SyncedArtistIDs(context.Background())
	require.NoError(t, err)
	assert.True(t, ids[1])
	assert.True(t, ids[3])
	assert.False(t, ids[2])
}

func TestConcertSearchResultRepository_InsertAll_MySQLUsesQuestionMarkPlaceholders(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO concert_search_results .* VALUES \(\?(, \?){14}\)`)
	mock.ExpectExec(`INSERT INTO concert_search_results`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewConcertSearchResultRepository(conn, config.DialectMySQL)
	tx, err := conn.Begin()
	require.NoError(t, err)

	err = repo.InsertAll(context.Background(), tx, 1, []concert.ConcertSearchResult{
		{ArtistName: "아이유", ConcertTitle: "콘서트", BookingURL: "https://a/1"},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertSearchResultRepository_InsertAll_EmptyIsNoOp(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := NewConcertSearchResultRepository(conn, config.DialectPostgres)
	tx, err := conn.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.InsertAll(context.Background(), tx, 1, nil))
	require.NoError(t, tx.Commit())
}

func TestConcertSearchResultRepository_DeleteForArtist(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM concert_search_results WHERE artist_keyword_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewConcertSearchResultRepository(conn, config.DialectPostgres)
	tx, err := conn.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.DeleteForArtist(context.Background(), tx, 7))
	require.NoError(t, tx.Commit())
}
