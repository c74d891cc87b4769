package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
)

// ConcertSearchResultRepository persists the LLM-refined records (spec §3
// ConcertSearchResult) against the target database.
type ConcertSearchResultRepository struct {
	db      *sql.DB
	dialect config.Dialect
}

// NewConcertSearchResultRepository wraps conn for ConcertSearchResult
// writes/reads.
func NewConcertSearchResultRepository(conn *sql.DB, dialect config.Dialect) *ConcertSearchResultRepository {
	return &ConcertSearchResultRepository{db: conn, dialect: dialect}
}

// InsertAll writes items for artistID inside tx. It is a no-op when items
// is empty.
func (r *ConcertSearchResultRepository) InsertAll(ctx context.Context, tx *sql.Tx, artistID int64, items []concert.ConcertSearchResult) error {
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`INSERT INTO concert_search_results
		   (artist_keyword_id, artist_name, concert_title, venue, concert_date, concert_time,
		    ticket_price, booking_date, booking_url, source, confidence, data_sources, is_verified, raw_response, synced_at)
		 VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		bindVar(r.dialect, 1), bindVar(r.dialect, 2), bindVar(r.dialect, 3), bindVar(r.dialect, 4),
		bindVar(r.dialect, 5), bindVar(r.dialect, 6), bindVar(r.dialect, 7), bindVar(r.dialect, 8),
		bindVar(r.dialect, 9), bindVar(r.dialect, 10), bindVar(r.dialect, 11), bindVar(r.dialect, 12),
		bindVar(r.dialect, 13), bindVar(r.dialect, 14), bindVar(r.dialect, 15),
	)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrExecutionFailed, "concert_search_results 삽입 구문 준비에 실패했습니다")
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx,
			artistID, item.ArtistName, item.ConcertTitle, item.Venue, item.ConcertDate, item.ConcertTime,
			item.TicketPrice, item.BookingDate, item.BookingURL, item.Source, item.Confidence,
			item.DataSources, item.IsVerified, item.RawResponse, time.Now(),
		); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrExecutionFailed, "아티스트 %q의 concert_search_results 삽입에 실패했습니다", item.ArtistName)
		}
	}
	return nil
}

// DeleteForArtist removes every result row for artistID, used by
// force-resync.
func (r *ConcertSearchResultRepository) DeleteForArtist(ctx context.Context, tx *sql.Tx, artistID int64) error {
	query := fmt.Sprintf(`DELETE FROM concert_search_results WHERE artist_keyword_id = %s`, bindVar(r.dialect, 1))
	if _, err := tx.ExecContext(ctx, query, artistID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrExecutionFailed, "concert_search_results 삭제에 실패했습니다")
	}
	return nil
}

// SyncedArtistIDs returns the set of artist ids that already have at least
// one persisted result, used to skip already-synced artists unless force.
func (r *ConcertSearchResultRepository) SyncedArtistIDs(ctx context.Context) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT artist_keyword_id FROM concert_search_results`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "동기화 완료 아티스트 조회에 실패했습니다")
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "동기화 완료 아티스트 행 스캔에 실패했습니다")
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "동기화 완료 아티스트 조회 중 오류가 발생했습니다")
	}
	return ids, nil
}

// ListByArtistName returns result rows, optionally filtered to a single
// artist name (empty string means no filter).
func (r *ConcertSearchResultRepository) ListByArtistName(ctx context.Context, artistName string) ([]concert.ConcertSearchResult, error) {
	query := r.baseSelect() + ` FROM concert_search_results`
	args := []interface{}{}
	if artistName != "" {
		query += fmt.Sprintf(` WHERE artist_name = %s`, bindVar(r.dialect, 1))
		args = append(args, artistName)
	}
	query += ` ORDER BY synced_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "concert_search_results 조회에 실패했습니다")
	}
	defer rows.Close()
	return scanResults(rows)
}

// ListByArtistKeywordID returns result rows for a single artist id.
func (r *ConcertSearchResultRepository) ListByArtistKeywordID(ctx context.Context, artistID int64) ([]concert.ConcertSearchResult, error) {
	query := r.baseSelect() + fmt.Sprintf(` FROM concert_search_results WHERE artist_keyword_id = %s ORDER BY synced_at DESC`, bindVar(r.dialect, 1))
	rows, err := r.db.QueryContext(ctx, query, artistID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "concert_search_results 조회에 실패했습니다")
	}
	defer rows.Close()
	return scanResults(rows)
}

// GetByID returns a single result row. ok is false when no row matches.
func (r *ConcertSearchResultRepository) GetByID(ctx context.Context, id int64) (result concert.ConcertSearchResult, ok bool, err error) {
	query := r.baseSelect() + fmt.Sprintf(` FROM concert_search_results WHERE id = %s`, bindVar(r.dialect, 1))
	row := r.db.QueryRowContext(ctx, query, id)
	if err := scanResultRow(row, &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return concert.ConcertSearchResult{}, false, nil
		}
		return concert.ConcertSearchResult{}, false, apperrors.Wrapf(err, apperrors.ErrExecutionFailed, "concert_search_results id=%d 조회에 실패했습니다", id)
	}
	return result, true, nil
}

func (r *ConcertSearchResultRepository) baseSelect() string {
	return `SELECT id, artist_keyword_id, artist_name, concert_title, venue, concert_date, concert_time,
	                ticket_price, booking_date, booking_url, source, confidence, data_sources, is_verified, raw_response, synced_at`
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResultRow(row rowScanner, r *concert.ConcertSearchResult) error {
	return row.Scan(
		&r.ID, &r.ArtistKeywordID, &r.ArtistName, &r.ConcertTitle, &r.Venue, &r.ConcertDate, &r.ConcertTime,
		&r.TicketPrice, &r.BookingDate, &r.BookingURL, &r.Source, &r.Confidence, &r.DataSources, &r.IsVerified,
		&r.RawResponse, &r.SyncedAt,
	)
}

func scanResults(rows *sql.Rows) ([]concert.ConcertSearchResult, error) {
	out := []concert.ConcertSearchResult{}
	for rows.Next() {
		var item concert.ConcertSearchResult
		if err := scanResultRow(rows, &item); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "concert_search_results 행 스캔에 실패했습니다")
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "concert_search_results 조회 중 오류가 발생했습니다")
	}
	return out, nil
}
