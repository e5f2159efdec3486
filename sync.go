package mapmarkers

import (
	"context"
	"os"
	"time"

	"github.com/NerdNu/mapmarkers/pkg/console"
	"github.com/NerdNu/mapmarkers/pkg/dynmap"
	"github.com/NerdNu/mapmarkers/pkg/errors"
	"github.com/NerdNu/mapmarkers/pkg/logging"
	"github.com/NerdNu/mapmarkers/pkg/mapitem"
	"github.com/NerdNu/mapmarkers/pkg/reconcile"
	"github.com/NerdNu/mapmarkers/pkg/region"
)

// Result describes one reconciliation run.
type Result struct {
	// Plan is the computed operation sequence, present even in dry runs.
	Plan *reconcile.Plan

	// Records is the number of map items read for the target dimension.
	Records int

	// Regions is the number of authoritative maps after region resolution.
	Regions int

	// Markers is the number of managed markers found in the store.
	Markers int

	// Failed is the number of commands the console channel rejected.
	// Failures are per-operation; they never roll back earlier commands.
	Failed int

	// Applied reports whether commands were sent (false for dry runs).
	Applied bool
}

// Sync performs one full reconciliation run: force a world save, read the
// map items, resolve authoritative regions, diff against the marker store
// and issue the converging commands. The marker store is read exactly once;
// overlapping runs against the same world are the scheduler's problem.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, s.logger)
	log := logging.FromContext(ctx)

	// Both input paths must be trustworthy before any command is issued;
	// there is no safe partial reconciliation without them.
	if fi, err := os.Stat(s.markersFile); err != nil {
		return nil, errors.WrapIO("stat", s.markersFile, err)
	} else if fi.IsDir() {
		return nil, errors.NewConfigError("markers-file", s.markersFile+" is a directory, not a markers file", nil)
	}
	if fi, err := os.Stat(s.mapsDir); err != nil {
		return nil, errors.WrapIO("stat", s.mapsDir, err)
	} else if !fi.IsDir() {
		return nil, errors.NewConfigError("maps-dir", s.mapsDir+" is not a directory", nil)
	}

	emitter := console.NewEmitter(s.runner, s.markerSet, s.world, s.icon)

	if !s.dryRun {
		// New map files only exist on disk after the server flushes them.
		if err := emitter.ForceSave(ctx); err != nil {
			log.Error().Err(err).Msg("Force save failed; map files may be stale")
		}
		if err := wait(ctx, s.saveWait); err != nil {
			return nil, err
		}
	}

	records, err := mapitem.LoadDir(ctx, s.mapsDir, s.dimension)
	if err != nil {
		return nil, err
	}

	authoritative := region.Resolve(records)

	current, err := dynmap.LoadSet(s.markersFile, s.markerSet, s.world)
	if err != nil {
		return nil, err
	}

	plan := reconcile.Compute(authoritative, current, s.markerY)

	result := &Result{
		Plan:    plan,
		Records: len(records),
		Regions: len(authoritative),
		Markers: len(current),
	}

	log.Info().
		Int("records", result.Records).
		Int("regions", result.Regions).
		Int("markers", result.Markers).
		Int("deletes", plan.Summary.Deletes).
		Int("adds", plan.Summary.Adds).
		Int("unchanged", plan.Summary.Unchanged).
		Bool("dry_run", s.dryRun).
		Msg("Computed marker plan")

	if s.dryRun {
		return result, nil
	}

	result.Failed = emitter.Apply(ctx, plan.Ops)
	result.Applied = true

	if result.Failed > 0 {
		log.Warn().Int("failed", result.Failed).Msg("Some marker commands failed; no retry, next run will converge")
	}
	return result, nil
}

// wait sleeps for the given duration unless the context is cancelled first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
