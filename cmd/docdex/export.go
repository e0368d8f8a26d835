package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/fs"
	"github.com/fwojciec/docdex/htmltomarkdown"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	var dumper docdex.PageDumper
	if c.DumpPages {
		dumper = fs.NewPageDumper(filepath.Join(c.Out, "pages"), htmltomarkdown.NewConverter())
	}

	batches, _, err := runCrawl(deps, c.URL, c.Filter, c.Index, c.Concurrency, dumper)
	if err != nil {
		return err
	}

	paths, err := fs.NewExporter(c.Out).WriteAll(batches)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	for _, path := range paths {
		fmt.Fprintln(deps.Stdout, path)
	}
	return nil
}
