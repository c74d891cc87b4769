// Package pipeline implements the per-artist sync step (spec §4.5): crawl,
// filter, persist the raw observations, refine via the LLM analyzer, and
// persist the refined results.
package pipeline

import (
	"context"
	"database/sql"
	"time"

	applog "github.com/hallyusync/concert-sync/internal/applog"
	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/db"
	"github.com/hallyusync/concert-sync/internal/filter"
)

// dropPastEvents removes any refined result whose concert date has already
// passed — Mode A's web-search gap-filling can surface a concert the raw
// crawl never mentioned, including ones that already happened.
func dropPastEvents(refined []concert.ConcertSearchResult, today time.Time) []concert.ConcertSearchResult {
	out := make([]concert.ConcertSearchResult, 0, len(refined))
	for _, r := range refined {
		if filter.IsPastEvent(r.ConcertDate, today) {
			continue
		}
		out = append(out, r)
	}
	return out
}

const component = "pipeline"

// Searcher is satisfied by *orchestrator.Orchestrator.
type Searcher interface {
	Search(artistName string) []concert.RawConcertData
}

// Analyzer is satisfied by *llm.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, artistName string, raw []concert.RawConcertData) []concert.ConcertSearchResult
}

// Pipeline runs the crawl -> filter -> persist -> analyze -> persist
// sequence for one artist at a time.
type Pipeline struct {
	searcher    Searcher
	analyzer    Analyzer
	target      *sql.DB
	crawledRepo *db.CrawledDataRepository
	resultRepo  *db.ConcertSearchResultRepository
}

// New builds a Pipeline. analyzer may be nil — when it is, Analyze is
// skipped and SyncOne persists only the raw crawl (spec §6: no LLM
// credentials means the analyzer is a no-op).
func New(searcher Searcher, analyzer Analyzer, target *sql.DB, crawledRepo *db.CrawledDataRepository, resultRepo *db.ConcertSearchResultRepository) *Pipeline {
	return &Pipeline{
		searcher:    searcher,
		analyzer:    analyzer,
		target:      target,
		crawledRepo: crawledRepo,
		resultRepo:  resultRepo,
	}
}

// SyncOne runs the pipeline for a single artist and returns the number of
// refined concerts persisted.
func (p *Pipeline) SyncOne(ctx context.Context, artist concert.Artist) (int, error) {
	log := applog.WithComponentAndFields(component, applog.Fields{"artist_name": artist.Name})

	raw := p.searcher.Search(artist.Name)
	raw = filter.Apply(raw, time.Now())
	log.WithField("raw_count", len(raw)).Info("크롤링 및 필터링 완료")

	for i := range raw {
		raw[i].ArtistName = artist.Name
	}

	rawTx, err := p.target.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rawTx.Rollback()

	if err := p.crawledRepo.InsertAll(ctx, rawTx, artist.ID, artist.Name, raw); err != nil {
		return 0, err
	}

	if err := rawTx.Commit(); err != nil {
		return 0, err
	}

	var refined []concert.ConcertSearchResult
	if p.analyzer != nil {
		refined = p.analyzer.Analyze(ctx, artist.Name, raw)
		refined = dropAISearchInjections(refined, raw)
		refined = dropPastEvents(refined, time.Now())
	}

	for i := range refined {
		refined[i].ArtistKeywordID = artist.ID
		if refined[i].ArtistName == "" {
			refined[i].ArtistName = artist.Name
		}
	}

	refinedTx, err := p.target.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer refinedTx.Rollback()

	if err := p.resultRepo.InsertAll(ctx, refinedTx, artist.ID, refined); err != nil {
		return 0, err
	}

	if err := refinedTx.Commit(); err != nil {
		return 0, err
	}

	log.WithField("refined_count", len(refined)).Info("아티스트 동기화 완료")
	return len(refined), nil
}

// dropAISearchInjections removes any ai_search/ai_only item the model added
// on its own when raw crawl data was available — Mode A must not fall back
// to Mode B provenance when there was something to refine.
func dropAISearchInjections(refined []concert.ConcertSearchResult, raw []concert.RawConcertData) []concert.ConcertSearchResult {
	if len(raw) == 0 {
		return refined
	}
	out := make([]concert.ConcertSearchResult, 0, len(refined))
	for _, r := range refined {
		if r.Source == concert.SourceAISearch || r.DataSources == concert.DataSourceAIOnly {
			continue
		}
		out = append(out, r)
	}
	return out
}
