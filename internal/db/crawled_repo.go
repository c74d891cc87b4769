package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
)

// CrawledDataRepository persists the append-only raw crawl observations
// (spec §3 CrawledData) against the target database.
type CrawledDataRepository struct {
	db      *sql.DB
	dialect config.Dialect
}

// NewCrawledDataRepository wraps conn for CrawledData writes/reads.
func NewCrawledDataRepository(conn *sql.DB, dialect config.Dialect) *CrawledDataRepository {
	return &CrawledDataRepository{db: conn, dialect: dialect}
}

// InsertAll writes items for artistID inside tx. It is a no-op when items
// is empty.
func (r *CrawledDataRepository) InsertAll(ctx context.Context, tx *sql.Tx, artistID int64, artistName string, items []concert.RawConcertData) error {
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`INSERT INTO crawled_data (artist_keyword_id, artist_name, source_site, title, venue, date, time, price, booking_url, crawled_at)
		 VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		bindVar(r.dialect, 1), bindVar(r.dialect, 2), bindVar(r.dialect, 3), bindVar(r.dialect, 4),
		bindVar(r.dialect, 5), bindVar(r.dialect, 6), bindVar(r.dialect, 7), bindVar(r.dialect, 8),
		bindVar(r.dialect, 9), bindVar(r.dialect, 10),
	)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrExecutionFailed, "crawled_data 삽입 구문 준비에 실패했습니다")
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx,
			artistID, artistName, item.SourceSite, item.Title, item.Venue,
			item.Date, item.Time, item.Price, item.BookingURL, time.Now(),
		); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrExecutionFailed, "아티스트 %q의 crawled_data 삽입에 실패했습니다", artistName)
		}
	}
	return nil
}

// DeleteForArtist removes every crawled_data row for artistID, used by
// force-resync.
func (r *CrawledDataRepository) DeleteForArtist(ctx context.Context, tx *sql.Tx, artistID int64) error {
	query := fmt.Sprintf(`DELETE FROM crawled_data WHERE artist_keyword_id = %s`, bindVar(r.dialect, 1))
	if _, err := tx.ExecContext(ctx, query, artistID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrExecutionFailed, "crawled_data 삭제에 실패했습니다")
	}
	return nil
}

// ListByArtistName returns crawled rows, optionally filtered to a single
// artist name (empty string means no filter).
func (r *CrawledDataRepository) ListByArtistName(ctx context.Context, artistName string) ([]concert.CrawledData, error) {
	query := `SELECT id, artist_keyword_id, artist_name, source_site, title, venue, date, time, price, booking_url, crawled_at FROM crawled_data`
	args := []interface{}{}
	if artistName != "" {
		query += fmt.Sprintf(` WHERE artist_name = %s`, bindVar(r.dialect, 1))
		args = append(args, artistName)
	}
	query += ` ORDER BY crawled_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "crawled_data 조회에 실패했습니다")
	}
	defer rows.Close()

	out := []concert.CrawledData{}
	for rows.Next() {
		var c concert.CrawledData
		if err := rows.Scan(&c.ID, &c.ArtistKeywordID, &c.ArtistName, &c.SourceSite, &c.Title, &c.Venue, &c.Date, &c.Time, &c.Price, &c.BookingURL, &c.CrawledAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "crawled_data 행 스캔에 실패했습니다")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "crawled_data 조회 중 오류가 발생했습니다")
	}
	return out, nil
}
