// Package schedule fires migration runs at start-up and on a cron schedule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"

	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/transfer"
)

// Runner performs one migration run.
type Runner interface {
	Run(ctx context.Context) (*model.RunSummary, error)
}

// Trigger invokes a Runner once when started and then on every tick of a
// standard five-field cron schedule.
type Trigger struct {
	cron     *cron.Cron
	schedule cron.Schedule
	runner   Runner
	log      zerolog.Logger

	mu      sync.Mutex
	ctx     context.Context
	stopped bool
	wg      sync.WaitGroup
}

// New parses spec and prepares a Trigger. Nothing runs until Start.
func New(spec string, runner Runner, log zerolog.Logger) (*Trigger, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	t := &Trigger{
		cron:     cron.New(),
		schedule: sched,
		runner:   runner,
		log:      log.With().Str("schedule", spec).Logger(),
		ctx:      context.Background(),
	}
	t.cron.Schedule(sched, cron.FuncJob(func() { t.fire("schedule") }))
	return t, nil
}

// Next returns the first scheduled fire time after the given instant.
func (t *Trigger) Next(after time.Time) time.Time {
	return t.schedule.Next(after)
}

// Start runs once immediately in the background and starts the schedule.
// ctx is passed to every run.
func (t *Trigger) Start(ctx context.Context) {
	t.mu.Lock()
	t.ctx = ctx
	t.mu.Unlock()

	go t.fire("startup")
	t.cron.Start()
	t.log.Info().Time("next_run", t.Next(time.Now())).Msg("scheduler started")
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (t *Trigger) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()

	t.cron.Stop()
	t.wg.Wait()
	t.log.Info().Msg("scheduler stopped")
}

func (t *Trigger) fire(reason string) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.wg.Add(1)
	ctx := t.ctx
	t.mu.Unlock()
	defer t.wg.Done()

	log := t.log.With().Str("trigger", reason).Logger()
	summary, err := t.runner.Run(ctx)
	switch {
	case errors.Is(err, transfer.ErrRunInProgress):
		log.Warn().Msg("previous run still in progress, skipping")
	case err != nil:
		log.Error().Err(err).Msg("run failed")
	default:
		extracted, loaded, purged := summary.Totals()
		log.Info().
			Str("run_id", summary.RunID).
			Int64("records_extracted", extracted).
			Int64("records_loaded", loaded).
			Int64("records_purged", purged).
			Bool("failed", summary.Failed()).
			Time("next_run", t.Next(time.Now())).
			Msg("scheduled run finished")
	}
}
