package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/docdex"
)

// Run executes the routes command.
func (c *RoutesCmd) Run(deps *Dependencies) error {
	mappings, err := deps.Mappings.FetchMappings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	rules := docdex.RulesFromMappings(mappings)
	if len(rules) == 0 {
		fmt.Fprintln(deps.Stdout, "No routing rules found.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PREFIX\tINDEX\tPRODUCT")
	for _, rule := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\n", rule.PathPrefix, rule.IndexName, rule.Product)
	}
	return w.Flush()
}
