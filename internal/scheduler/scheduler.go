// Package scheduler implements C7: a periodic trigger that runs the batch
// sync on a fixed interval, firing once immediately at startup.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	applog "github.com/hallyusync/concert-sync/internal/applog"
	"github.com/hallyusync/concert-sync/internal/config"
	syncsvc "github.com/hallyusync/concert-sync/internal/sync"
	"github.com/robfig/cron/v3"
)

const component = "scheduler"

// BatchRunner is satisfied by *sync.Service.
type BatchRunner interface {
	SyncAll(ctx context.Context, force bool) (syncsvc.BatchResult, error)
}

// Scheduler wraps a robfig/cron instance running the batch sync on
// cfg.SyncInterval.
type Scheduler struct {
	cron   *cron.Cron
	runner BatchRunner
	ctx    context.Context
	cancel context.CancelFunc

	// initialRun tracks the immediate first sync, which cron does not run.
	initialRun sync.WaitGroup
}

// New builds a Scheduler. It does not start running until Start is called.
func New(runner BatchRunner) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers the periodic job at the given interval and runs an
// immediate first sync in the background, per spec §4.7. It returns an
// error only if the cron spec itself is malformed.
func (s *Scheduler) Start(cfg config.Config) error {
	spec := fmt.Sprintf("@every %s", cfg.SyncInterval)
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()

	s.initialRun.Add(1)
	go func() {
		defer s.initialRun.Done()
		s.runOnce()
	}()
	return nil
}

// Stop halts the cron scheduler and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.initialRun.Wait()
}

func (s *Scheduler) runOnce() {
	log := applog.WithComponent(component)
	log.Info("예약된 배치 동기화를 시작합니다")

	result, err := s.runner.SyncAll(s.ctx, false)
	if err != nil {
		log.WithField("error", err.Error()).Error("배치 동기화 실패")
		return
	}

	log.WithField("total_artists", result.TotalArtists).
		WithField("synced", result.Synced).
		WithField("skipped", result.Skipped).
		WithField("concerts_found", result.ConcertsFound).
		Info("배치 동기화 완료")
}
