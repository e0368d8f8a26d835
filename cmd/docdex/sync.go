package main

import (
	"fmt"

	"github.com/fwojciec/docdex/reconcile"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	batches, stats, err := runCrawl(deps, c.URL, c.Filter, c.Index, c.Concurrency, nil)
	if err != nil {
		return err
	}

	engine := &reconcile.Engine{
		Index:  deps.Index,
		Logger: deps.Logger.With("run_id", stats.RunID),
		Options: reconcile.Options{
			ForceUpdate: c.Force,
			FullReindex: c.FullReindex,
			Concurrency: c.Concurrency,
		},
	}

	results := engine.SyncAll(deps.Ctx, batches)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(deps.Stderr, "  %s: failed (%s): %v\n", res.IndexName, res.State, res.Err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %s: +%d -%d\n", res.IndexName, res.Upserted, res.Deleted)
	}

	// Per-index failures are reported above; they do not fail the run.
	return nil
}
