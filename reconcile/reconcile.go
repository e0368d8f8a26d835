// Package reconcile diffs freshly synthesized search records against a
// remote index's current contents and applies the minimal set of upserts and
// deletes, preserving monotonic recency: a record is only overwritten when
// it is not provably older than what is already indexed.
package reconcile

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/fwojciec/docdex"
	"golang.org/x/sync/errgroup"
)

// State tracks one index's progress through a sync run.
type State int

// Sync states, in order of progression. Failed is reachable from any state
// on a remote-service error.
const (
	StateStart State = iota
	StateStreaming
	StateDiffing
	StateApplying
	StateDone
	StateFailed
)

// String returns the state name for logs and reports.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateStreaming:
		return "streaming"
	case StateDiffing:
		return "diffing"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Plan is the computed change set for one index: records to write and
// objectIDs to remove. It is consumed immediately and never persisted.
type Plan struct {
	Upserts []docdex.SearchRecord
	Deletes []string
}

// Options control a reconciliation run. They are constructed once per run
// and threaded explicitly; there is no ambient process-level state.
type Options struct {
	// ForceUpdate rewrites every record present in both the existing and
	// the new set, ignoring timestamp precedence.
	ForceUpdate bool

	// FullReindex replaces the whole index's records with the new batch,
	// bypassing the diff.
	FullReindex bool

	// DryRun computes and reports the plan without mutating remote state.
	DryRun bool

	// Concurrency bounds how many indexes reconcile at once in SyncAll.
	Concurrency int

	// Now supplies the wall clock; defaults to time.Now.
	Now func() time.Time
}

// Result is the per-index outcome aggregated by SyncAll. A failed index
// never aborts its siblings.
type Result struct {
	IndexName string
	Product   string
	State     State
	Upserted  int
	Deleted   int
	Plan      *Plan // set in dry-run mode
	Err       error
}

// Engine reconciles record batches against an index service.
type Engine struct {
	Index   docdex.IndexService
	Logger  *slog.Logger
	Options Options
}

// SyncAll reconciles every batch, one index at a time up to the configured
// concurrency. Results come back in input order; per-index failures are
// captured in the result list and do not stop the run.
func (e *Engine) SyncAll(ctx context.Context, batches []docdex.RecordBatch) []Result {
	results := make([]Result, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.Options.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, batch := range batches {
		g.Go(func() error {
			results[i] = e.Sync(gctx, batch)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Sync reconciles one index against its freshly synthesized batch.
func (e *Engine) Sync(ctx context.Context, batch docdex.RecordBatch) Result {
	res := Result{IndexName: batch.IndexName, Product: batch.Product, State: StateStart}
	logger := e.logger().With("index", batch.IndexName)

	if len(batch.Settings) > 0 && !e.Options.DryRun {
		if err := e.Index.Configure(ctx, batch.IndexName, batch.Settings); err != nil {
			return e.fail(logger, res, err)
		}
	}

	plan, err := e.computePlan(ctx, &res, batch)
	if err != nil {
		return e.fail(logger, res, err)
	}

	if e.Options.DryRun {
		res.State = StateDone
		res.Plan = plan
		res.Upserted = len(plan.Upserts)
		res.Deleted = len(plan.Deletes)
		return res
	}

	res.State = StateApplying
	if len(plan.Deletes) > 0 {
		if err := e.Index.DeleteBatch(ctx, batch.IndexName, plan.Deletes); err != nil {
			return e.fail(logger, res, err)
		}
	}
	if len(plan.Upserts) > 0 {
		if err := e.Index.UpsertBatch(ctx, batch.IndexName, plan.Upserts); err != nil {
			return e.fail(logger, res, err)
		}
	}

	res.State = StateDone
	res.Upserted = len(plan.Upserts)
	res.Deleted = len(plan.Deletes)
	logger.Info("index reconciled",
		"upserted", res.Upserted,
		"deleted", res.Deleted,
		"full_reindex", e.Options.FullReindex,
	)
	return res
}

// computePlan streams the index's existing records and diffs them against
// the batch. In full-reindex mode every existing record is deleted and the
// whole batch upserted.
func (e *Engine) computePlan(ctx context.Context, res *Result, batch docdex.RecordBatch) (*Plan, error) {
	now := e.now()
	plan := &Plan{}

	fresh := make(map[string]docdex.SearchRecord, len(batch.Records))
	for _, rec := range batch.Records {
		fresh[rec.ObjectID] = rec
	}

	res.State = StateStreaming
	exists, err := e.Index.Exists(ctx, batch.IndexName)
	if err != nil {
		return nil, err
	}

	if e.Options.FullReindex {
		if exists {
			if err := e.Index.BrowseAll(ctx, batch.IndexName, func(existing docdex.SearchRecord) error {
				plan.Deletes = append(plan.Deletes, existing.ObjectID)
				return nil
			}); err != nil {
				return nil, err
			}
		}
		res.State = StateDiffing
		for _, rec := range batch.Records {
			plan.Upserts = append(plan.Upserts, restamp(rec, now))
		}
		sortPlan(plan)
		return plan, nil
	}

	if exists {
		if err := e.Index.BrowseAll(ctx, batch.IndexName, func(existing docdex.SearchRecord) error {
			incoming, ok := fresh[existing.ObjectID]
			if !ok {
				// No longer corresponds to current source content.
				plan.Deletes = append(plan.Deletes, existing.ObjectID)
				return nil
			}
			// Reconciled either way: remaining IDs are genuinely new.
			delete(fresh, existing.ObjectID)
			if e.shouldUpdate(existing, incoming) {
				plan.Upserts = append(plan.Upserts, restamp(incoming, now))
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	res.State = StateDiffing
	for _, rec := range fresh {
		plan.Upserts = append(plan.Upserts, restamp(rec, now))
	}
	sortPlan(plan)
	return plan, nil
}

// shouldUpdate implements the monotonic-recency rule: update when forced,
// when either side's source timestamp is missing (treated conservatively as
// "must update"), or when the new record is strictly more recent.
func (e *Engine) shouldUpdate(existing, incoming docdex.SearchRecord) bool {
	if e.Options.ForceUpdate {
		return true
	}
	if existing.LastModified == "" || incoming.LastModified == "" {
		return true
	}
	return incoming.LastModified > existing.LastModified
}

// restamp clamps any future date and stamps the time of this sync.
func restamp(rec docdex.SearchRecord, now time.Time) docdex.SearchRecord {
	if t, ok := docdex.ParseDate(rec.LastModified); ok {
		rec.LastModified = docdex.NormalizeDate(t, now)
	}
	rec.IndexedAt = now
	return rec
}

// sortPlan orders the plan deterministically for stable application and
// readable dry-run output.
func sortPlan(plan *Plan) {
	sort.Slice(plan.Upserts, func(i, j int) bool {
		return plan.Upserts[i].ObjectID < plan.Upserts[j].ObjectID
	})
	sort.Strings(plan.Deletes)
}

func (e *Engine) fail(logger *slog.Logger, res Result, err error) Result {
	res.State = StateFailed
	res.Err = err
	logger.Error("index reconciliation failed", "state", res.State.String(), "err", err)
	return res
}

func (e *Engine) now() time.Time {
	if e.Options.Now != nil {
		return e.Options.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
