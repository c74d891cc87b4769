// Package orchestrator implements C3: fan out every registered crawler's
// search for the same artist concurrently, join on completion, and
// concatenate results in crawler-registration order.
package orchestrator

import (
	"fmt"
	"sync"

	"github.com/hallyusync/concert-sync/internal/concert"
	"github.com/hallyusync/concert-sync/internal/crawler"
	applog "github.com/hallyusync/concert-sync/internal/applog"
)

const component = "orchestrator"

// Orchestrator fans out a Registry's crawlers concurrently per search.
type Orchestrator struct {
	registry *crawler.Registry
}

func New(registry *crawler.Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// Search runs every registered crawler's Search concurrently for
// artistName and concatenates the results in registration order. A crawler
// that panics is recovered and contributes an empty slice — per spec §4.3,
// the call itself can never fail.
func (o *Orchestrator) Search(artistName string) []concert.RawConcertData {
	crawlers := o.registry.All()
	results := make([][]concert.RawConcertData, len(crawlers))

	var wg sync.WaitGroup
	wg.Add(len(crawlers))
	for i, c := range crawlers {
		go func(i int, c crawler.Crawler) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					applog.WithComponentAndFields(component, applog.Fields{
						"source":      c.SourceName(),
						"artist_name": artistName,
						"panic":       fmt.Sprintf("%v", r),
					}).Error("크롤러 실행 중 패닉 복구 — 빈 결과로 대체합니다")
					results[i] = nil
				}
			}()
			results[i] = c.Search(artistName)
		}(i, c)
	}
	wg.Wait()

	var out []concert.RawConcertData
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}
