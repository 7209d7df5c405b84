package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/snapshot"
	"github.com/gyeh/locsync/internal/source"
)

// Options tune an Orchestrator.
type Options struct {
	PurgeBatchSize int
	// SnapshotDir enables Parquet snapshots of each extracted batch when set.
	SnapshotDir string
}

// Orchestrator runs extract → load → purge for every configured unit.
// Units run one after another; at most one run is active at a time.
type Orchestrator struct {
	units     []config.Unit
	extractor *Extractor
	loader    *Loader
	purger    *Purger
	opts      Options
	log       zerolog.Logger

	mu sync.Mutex
}

// New creates an Orchestrator over the given units.
func New(units []config.Unit, store source.Store, writer Writer, log zerolog.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		units:     units,
		extractor: NewExtractor(store),
		loader:    NewLoader(writer),
		purger:    NewPurger(store, opts.PurgeBatchSize),
		opts:      opts,
		log:       log,
	}
}

// Run migrates every unit once. A unit's failure is recorded in its result
// and does not stop later units. Returns ErrRunInProgress without doing
// anything if another run is active.
func (o *Orchestrator) Run(ctx context.Context) (*model.RunSummary, error) {
	if !o.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer o.mu.Unlock()

	start := time.Now()
	runID := uuid.New().String()
	log := o.log.With().Str("run_id", runID).Logger()
	log.Info().Int("units", len(o.units)).Msg("starting migration run")

	summary := &model.RunSummary{RunID: runID}
	for _, u := range o.units {
		summary.Results = append(summary.Results, o.runUnit(ctx, log, runID, u))
	}
	summary.Duration = time.Since(start)

	extracted, loaded, purged := summary.Totals()
	log.Info().
		Int64("records_extracted", extracted).
		Int64("records_loaded", loaded).
		Int64("records_purged", purged).
		Bool("failed", summary.Failed()).
		Str("total_duration", summary.Duration.String()).
		Msg("migration run complete")

	return summary, nil
}

// unitRun tracks one unit through the state machine.
type unitRun struct {
	res *model.RunResult
	log zerolog.Logger
}

func (u *unitRun) advance(next model.State) {
	if !u.res.State.CanTransition(next) {
		u.log.Error().Str("from", string(u.res.State)).Str("to", string(next)).Msg("illegal state transition")
		return
	}
	u.log.Debug().Str("from", string(u.res.State)).Str("to", string(next)).Msg("state transition")
	u.res.State = next
}

func (u *unitRun) fail(err error) {
	u.advance(model.StateFailed)
	u.res.Outcome = model.OutcomeFailure
	u.res.Error = err.Error()
}

func (o *Orchestrator) runUnit(ctx context.Context, log zerolog.Logger, runID string, unit config.Unit) (res model.RunResult) {
	start := time.Now()
	res = model.RunResult{
		Unit:       unit.Name,
		Collection: unit.Collection,
		RunID:      runID,
		State:      model.StateIdle,
		Outcome:    model.OutcomeSuccess,
	}
	u := &unitRun{
		res: &res,
		log: log.With().Str("unit", unit.Name).Str("collection", unit.Collection).Logger(),
	}

	defer func() {
		if r := recover(); r != nil {
			u.fail(fmt.Errorf("panic: %v", r))
		}
		res.Duration = time.Since(start)
		logResult(u.log, &res)
	}()

	// Extract
	u.advance(model.StateExtracting)
	docs, err := o.extractor.Extract(ctx, unit.Collection)
	if err != nil {
		u.fail(err)
		return res
	}
	res.RecordsExtracted = int64(len(docs))
	u.log.Info().Int64("records_extracted", res.RecordsExtracted).Msg("extraction complete")

	if len(docs) == 0 {
		u.advance(model.StateDone)
		return res
	}

	if o.opts.SnapshotDir != "" {
		path := snapshot.Path(o.opts.SnapshotDir, unit.Name, runID)
		if err := snapshot.Write(path, docs, start); err != nil {
			u.log.Warn().Err(err).Msg("snapshot failed (non-fatal)")
		} else {
			u.log.Info().Str("snapshot", path).Msg("snapshot written")
		}
	}

	// Load
	u.advance(model.StateLoading)
	loadStart := time.Now()
	loaded, err := o.loader.Load(ctx, unit.Destination, docs)
	if err != nil {
		u.fail(err)
		return res
	}
	res.RecordsLoaded = loaded
	u.log.Info().
		Int64("records_loaded", loaded).
		Str("destination", unit.Destination.String()).
		Dur("duration", time.Since(loadStart)).
		Msg("load committed")

	// Purge only what was committed.
	u.advance(model.StatePurging)
	refs := make([]model.DocRef, len(docs))
	for i := range docs {
		refs[i] = docs[i].Ref
	}
	purged, err := o.purger.Purge(ctx, u.log, unit.Collection, refs)
	res.RecordsPurged = purged
	if err != nil {
		res.Outcome = model.OutcomePartialFailure
		res.Error = err.Error()
	}
	u.advance(model.StateDone)
	return res
}

func logResult(log zerolog.Logger, res *model.RunResult) {
	var ev *zerolog.Event
	switch res.Outcome {
	case model.OutcomeSuccess:
		ev = log.Info()
	case model.OutcomePartialFailure:
		ev = log.Warn()
	default:
		ev = log.Error()
	}
	if res.Error != "" {
		ev = ev.Str("error", res.Error)
	}
	ev.Str("state", string(res.State)).
		Str("outcome", string(res.Outcome)).
		Int64("records_extracted", res.RecordsExtracted).
		Int64("records_loaded", res.RecordsLoaded).
		Int64("records_purged", res.RecordsPurged).
		Str("duration", res.Duration.String()).
		Msg("unit complete")
}
