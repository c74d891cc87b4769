package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/hallyusync/concert-sync/internal/db"
	syncsvc "github.com/hallyusync/concert-sync/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct{}

func (stubRunner) SyncOne(context.Context, concert.Artist) (int, error) { return 0, nil }

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	mock.ExpectQuery(`SELECT id, name FROM artists ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`SELECT DISTINCT artist_keyword_id FROM concert_search_results`).
		WillReturnRows(sqlmock.NewRows([]string{"artist_keyword_id"}))

	svc := syncsvc.New(
		stubRunner{},
		conn,
		db.NewArtistRepository(conn, config.DialectPostgres),
		db.NewCrawledDataRepository(conn, config.DialectPostgres),
		db.NewConcertSearchResultRepository(conn, config.DialectPostgres),
	)
	return NewHandler(svc, conn, conn, true)
}

func TestHealth_ReturnsHealthy(t *testing.T) {
	h := newTestHandler(t)
	e := NewServer(h)

	req := httptest.NewRequest(http.MethodGet, "/health/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRunSyncAll_ReturnsBatchResult(t *testing.T) {
	h := newTestHandler(t)
	e := NewServer(h)

	req := httptest.NewRequest(http.MethodPost, "/sync/run", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_artists")
}

func TestGetResult_InvalidIDReturns400(t *testing.T) {
	h := newTestHandler(t)
	e := NewServer(h)

	req := httptest.NewRequest(http.MethodGet, "/sync/results/not-a-number", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
