package cmd

import (
	"github.com/sahajm/bidscope/core"
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/spf13/cobra"
)

// evaluateCmd runs the full evaluation pipeline over a tenders file.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <tenders-file>",
	Short: "Rank tenders by bid-worthiness score.",
	Long: `Run the full evaluation pipeline over a tenders file and rank the
tenders by composite bid-worthiness score.

For every tender this:
- Parses the scope of supply into line items
- Extracts cable specifications from the line item text
- Matches each line item against the product catalog
- Prices the order with volume discounts and compliance tests
- Scores the tender on technical fit, price, delivery, compliance and risk

The tender with the highest composite score is flagged as the best pick.

Examples:
  # Rank all tenders in a file
  bidscope evaluate tenders.json --catalog catalog.csv

  # Only consider tenders due in the next six weeks
  bidscope evaluate tenders.json --catalog catalog.csv --within 6w

  # Include component scores and score drivers
  bidscope evaluate tenders.json --catalog catalog.csv --detail --explain

  # Track results in SQLite and export findings to CSV
  bidscope evaluate tenders.json --catalog catalog.csv --result-backend sqlite --output csv --output-file scores.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		source := refdata.NewFileTenderSource(cfg.TendersPath)
		if err := core.ExecuteEvaluate(rootCtx, cfg, source, refTables, resultStore); err != nil {
			contract.LogFatal("Cannot run evaluation", err)
		}
	},
}
