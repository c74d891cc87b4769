package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/config"
)

// ArtistRepository reads Artist rows from the source database. It never
// writes — the source database is owned by another system.
type ArtistRepository struct {
	db      *sql.DB
	dialect config.Dialect
}

// NewArtistRepository wraps conn for read-only artist queries against the
// given dialect's placeholder style.
func NewArtistRepository(conn *sql.DB, dialect config.Dialect) *ArtistRepository {
	return &ArtistRepository{db: conn, dialect: dialect}
}

// List returns every artist row, ordered by id for deterministic sync runs.
func (r *ArtistRepository) List(ctx context.Context) ([]concert.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY id`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "아티스트 목록 조회에 실패했습니다")
	}
	defer rows.Close()

	var artists []concert.Artist
	for rows.Next() {
		var a concert.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "아티스트 행 스캔에 실패했습니다")
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrExecutionFailed, "아티스트 목록 조회 중 오류가 발생했습니다")
	}
	return artists, nil
}

// FindByName looks up a single artist by exact name. ok is false when no
// row matches.
func (r *ArtistRepository) FindByName(ctx context.Context, name string) (artist concert.Artist, ok bool, err error) {
	query := fmt.Sprintf(`SELECT id, name FROM artists WHERE name = %s`, bindVar(r.dialect, 1))
	row := r.db.QueryRowContext(ctx, query, name)
	if err := row.Scan(&artist.ID, &artist.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return concert.Artist{}, false, nil
		}
		return concert.Artist{}, false, apperrors.Wrap(err, apperrors.ErrExecutionFailed, fmt.Sprintf("아티스트 %q 조회에 실패했습니다", name))
	}
	return artist, true, nil
}
