package cmd

import (
	"github.com/sahajm/bidscope/core"
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/spf13/cobra"
)

// matchCmd shows per-line-item catalog matches without the full ranking.
var matchCmd = &cobra.Command{
	Use:   "match <tenders-file>",
	Short: "Show catalog matches for every tender line item.",
	Long: `Match tender line items against the product catalog and show the
ranked candidates per line item.

Use this to inspect the matching stage in isolation:
- Verify that line items are parsed and specs extracted correctly
- See which catalog products clear the match threshold
- Understand why a product was (or wasn't) selected

Examples:
  # Show top candidates per line item
  bidscope match tenders.json --catalog catalog.csv

  # Include the per-attribute hit/miss breakdown
  bidscope match tenders.json --catalog catalog.csv --detail

  # Loosen the match threshold
  bidscope match tenders.json --catalog catalog.csv --min-score 20`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		source := refdata.NewFileTenderSource(cfg.TendersPath)
		if err := core.ExecuteMatch(rootCtx, cfg, source, refTables); err != nil {
			contract.LogFatal("Cannot run matching", err)
		}
	},
}
