// Package sync implements C6: batch and single-artist synchronization with
// skip-if-already-synced idempotency, force-resync, and the read-only
// result/crawl-data query helpers the API surface exposes.
package sync

import (
	"context"
	"database/sql"
	"sync"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	applog "github.com/hallyusync/concert-sync/internal/applog"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/db"
)

const component = "sync"

// Runner is satisfied by *pipeline.Pipeline.
type Runner interface {
	SyncOne(ctx context.Context, artist concert.Artist) (int, error)
}

// BatchResult summarizes a SyncAll run.
type BatchResult struct {
	TotalArtists  int `json:"total_artists"`
	Synced        int `json:"synced"`
	Skipped       int `json:"skipped"`
	ConcertsFound int `json:"concerts_found"`
}

// ArtistResult summarizes a SyncByArtistName run.
type ArtistResult struct {
	ArtistName    string `json:"artist_name"`
	ConcertsFound int    `json:"concerts_found"`
	Skipped       bool   `json:"skipped"`
}

// Service coordinates the pipeline runner against the source artist list
// and the target database's already-synced bookkeeping. A single process
// may only run one sync at a time — mu serializes SyncAll/SyncByArtistName
// so a scheduler tick and a manual API trigger can't race each other's
// force-delete-then-resync.
type Service struct {
	mu sync.Mutex

	runner      Runner
	target      *sql.DB
	artists     *db.ArtistRepository
	crawledRepo *db.CrawledDataRepository
	resultRepo  *db.ConcertSearchResultRepository
}

// New builds a Service.
func New(runner Runner, target *sql.DB, artists *db.ArtistRepository, crawledRepo *db.CrawledDataRepository, resultRepo *db.ConcertSearchResultRepository) *Service {
	return &Service{
		runner:      runner,
		target:      target,
		artists:     artists,
		crawledRepo: crawledRepo,
		resultRepo:  resultRepo,
	}
}

// SyncAll runs the pipeline for every source artist, skipping artists that
// already have persisted results unless force is set.
func (s *Service) SyncAll(ctx context.Context, force bool) (BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	artists, err := s.artists.List(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	synced, err := s.resultRepo.SyncedArtistIDs(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{TotalArtists: len(artists)}
	for _, artist := range artists {
		if synced[artist.ID] && !force {
			result.Skipped++
			continue
		}

		if force && synced[artist.ID] {
			if err := s.resync(ctx, artist.ID); err != nil {
				return result, err
			}
		}

		count, err := s.runner.SyncOne(ctx, artist)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{"artist_name": artist.Name, "error": err.Error()}).
				Error("아티스트 동기화 실패")
			continue
		}

		result.Synced++
		result.ConcertsFound += count
	}

	return result, nil
}

// SyncByArtistName runs the pipeline for a single artist looked up by exact
// name. ok is false when no artist with that name exists in the source
// database.
func (s *Service) SyncByArtistName(ctx context.Context, name string, force bool) (result ArtistResult, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	artist, found, err := s.artists.FindByName(ctx, name)
	if err != nil {
		return ArtistResult{}, false, err
	}
	if !found {
		return ArtistResult{}, false, nil
	}

	synced, err := s.resultRepo.SyncedArtistIDs(ctx)
	if err != nil {
		return ArtistResult{}, false, err
	}

	if synced[artist.ID] && !force {
		return ArtistResult{ArtistName: artist.Name, Skipped: true}, true, nil
	}

	if force && synced[artist.ID] {
		if err := s.resync(ctx, artist.ID); err != nil {
			return ArtistResult{}, false, err
		}
	}

	count, err := s.runner.SyncOne(ctx, artist)
	if err != nil {
		return ArtistResult{}, false, err
	}

	return ArtistResult{ArtistName: artist.Name, ConcertsFound: count}, true, nil
}

// resync deletes an artist's prior ConcertSearchResult and CrawledData rows
// ahead of a forced re-sync, in a single transaction.
func (s *Service) resync(ctx context.Context, artistID int64) error {
	tx, err := s.target.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrExecutionFailed, "강제 재동기화 트랜잭션 시작에 실패했습니다")
	}
	defer tx.Rollback()

	if err := s.resultRepo.DeleteForArtist(ctx, tx, artistID); err != nil {
		return err
	}
	if err := s.crawledRepo.DeleteForArtist(ctx, tx, artistID); err != nil {
		return err
	}
	return tx.Commit()
}

// Results returns persisted ConcertSearchResult rows, optionally filtered to
// a single artist name.
func (s *Service) Results(ctx context.Context, artistName string) ([]concert.ConcertSearchResult, error) {
	return s.resultRepo.ListByArtistName(ctx, artistName)
}

// ResultByID returns a single ConcertSearchResult row. ok is false when no
// row matches.
func (s *Service) ResultByID(ctx context.Context, id int64) (concert.ConcertSearchResult, bool, error) {
	return s.resultRepo.GetByID(ctx, id)
}

// CrawledData returns persisted CrawledData rows, optionally filtered to a
// single artist name.
func (s *Service) CrawledData(ctx context.Context, artistName string) ([]concert.CrawledData, error) {
	return s.crawledRepo.ListByArtistName(ctx, artistName)
}
