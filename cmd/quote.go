package cmd

import (
	"github.com/sahajm/bidscope/core"
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/spf13/cobra"
)

// quoteCmd prints the commercial quote view per tender.
var quoteCmd = &cobra.Command{
	Use:   "quote <tenders-file>",
	Short: "Build a priced quote for every tender.",
	Long: `Run matching and pricing for all tenders and print the commercial
quote: order quantities, discounted unit prices, compliance test costs and
line totals.

The quote uses the best catalog candidate per line item, applies minimum
order quantities and volume discount bands, and adds the compliance tests
required for each voltage class.

Examples:
  # Print the quote tables
  bidscope quote tenders.json --catalog catalog.csv --discounts discounts.csv --tests tests.csv

  # Include voltage class and degradation notes
  bidscope quote tenders.json --catalog catalog.csv --detail

  # Export line items to CSV
  bidscope quote tenders.json --catalog catalog.csv --output csv --output-file quote.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		source := refdata.NewFileTenderSource(cfg.TendersPath)
		if err := core.ExecuteQuote(rootCtx, cfg, source, refTables); err != nil {
			contract.LogFatal("Cannot run quoting", err)
		}
	},
}
