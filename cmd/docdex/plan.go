package main

import (
	"fmt"

	"github.com/fwojciec/docdex/reconcile"
)

// Run executes the plan command.
func (c *PlanCmd) Run(deps *Dependencies) error {
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
			DryRun:      true,
			Concurrency: c.Concurrency,
		},
	}

	results := engine.SyncAll(deps.Ctx, batches)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(deps.Stderr, "  %s: failed (%s): %v\n", res.IndexName, res.State, res.Err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s: %d upserts, %d deletes\n", res.IndexName, res.Upserted, res.Deleted)
		if res.Plan == nil {
			continue
		}
		for _, rec := range res.Plan.Upserts {
			fmt.Fprintf(deps.Stdout, "  + %s  %s\n", rec.ObjectID, rec.URL)
		}
		for _, id := range res.Plan.Deletes {
			fmt.Fprintf(deps.Stdout, "  - %s\n", id)
		}
	}

	return nil
}
