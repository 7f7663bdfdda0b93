package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// matchRow is one flattened candidate row across all tenders and line items.
type matchRow struct {
	Project   string
	Position  int
	ItemText  string
	Rank      int
	Candidate schema.MatchCandidate
}

// flattenMatches turns nested tender match maps into report rows, ordered by
// tender, then line item position, then candidate rank.
func flattenMatches(evals []schema.TenderEvaluation) []matchRow {
	var rows []matchRow
	for _, eval := range evals {
		positions := make([]int, 0, len(eval.Matches))
		for pos := range eval.Matches {
			positions = append(positions, pos)
		}
		sort.Ints(positions)

		for _, pos := range positions {
			text := ""
			for _, item := range eval.Items {
				if item.Position == pos {
					text = item.Text
					break
				}
			}
			for rank, cand := range eval.Matches[pos] {
				rows = append(rows, matchRow{
					Project:   eval.Tender.ProjectID,
					Position:  pos,
					ItemText:  text,
					Rank:      rank + 1,
					Candidate: cand,
				})
			}
		}
	}
	return rows
}

// WriteMatchResults outputs the per-line-item catalog matches, dispatching
// based on the output format configured.
func WriteMatchResults(evals []schema.TenderEvaluation, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeMatchJSONResults(evals, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeMatchCSVResults(evals, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for match results")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatchTable(evals, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// matchProjectView is the JSON shape for one tender's match output.
type matchProjectView struct {
	Project string                          `json:"project"`
	Items   []schema.LineItem               `json:"items"`
	Matches map[int][]schema.MatchCandidate `json:"matches"`
}

// writeMatchJSONResults handles opening the file and calling the JSON writer.
func writeMatchJSONResults(evals []schema.TenderEvaluation, cfg *contract.Config) error {
	views := make([]matchProjectView, len(evals))
	for i, eval := range evals {
		views[i] = matchProjectView{
			Project: eval.Tender.ProjectID,
			Items:   eval.Items,
			Matches: eval.Matches,
		}
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, views)
	}, "Wrote JSON")
}

// writeMatchCSVResults handles opening the file and calling the CSV writer.
func writeMatchCSVResults(evals []schema.TenderEvaluation, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForMatches(w, evals, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeMatchTable generates and writes the human-readable match table.
func writeMatchTable(evals []schema.TenderEvaluation, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Project", "Item", "Product", "Match"}
	if cfg.Detail {
		headers = append(headers, "Hits", "Missed", "Price", "MOQ", "Lead")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	rows := flattenMatches(evals)
	maxWidth := getMaxTableTextWidth(cfg)
	var data [][]string
	for _, r := range rows {
		row := []string{
			r.Project,
			fmt.Sprintf(intFmt, r.Position+1),
			contract.TruncateText(r.Candidate.ProductName, maxWidth),
			fmtFloat(r.Candidate.Score) + "%",
		}
		if cfg.Detail {
			hits, total := matchedAttributeCount(r.Candidate.Comparisons)
			row = append(
				row,
				fmt.Sprintf("%d/%d", hits, total),
				missedAttributes(r.Candidate.Comparisons),
				fmtFloat(r.Candidate.UnitPrice),
				fmtFloat(r.Candidate.MOQ),
				fmt.Sprintf(intFmt, r.Candidate.LeadTimeDays),
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 5. Per-attribute comparison for top candidates
	if cfg.Detail {
		if err := writeComparisonTables(rows, writer); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Matched %d candidates across %d tenders\n", len(rows), len(evals)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Matching completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeComparisonTables renders the attribute-level hit/miss breakdown for
// the top candidate of each line item.
func writeComparisonTables(rows []matchRow, writer io.Writer) error {
	for _, r := range rows {
		if r.Rank != 1 || len(r.Candidate.Comparisons) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(writer, "\n%s item %d vs %s:\n", r.Project, r.Position+1, r.Candidate.ProductID); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Attribute", "Required", "Catalog", "Match", "Weight"})

		var data [][]string
		for _, c := range r.Candidate.Comparisons {
			matched := "no"
			if c.Matched {
				matched = "yes"
			}
			data = append(data, []string{
				string(c.Key),
				c.Required,
				c.Catalog,
				matched,
				strconv.FormatFloat(c.Weight, 'f', -1, 64),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVResultsForMatches writes the match results in CSV format.
func writeCSVResultsForMatches(w io.Writer, evals []schema.TenderEvaluation, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"project",
		"item",
		"rank",
		"product_id",
		"product_name",
		"match_score",
		"hits",
		"total_attrs",
		"missed",
		"unit_price",
		"moq",
		"lead_time_days",
		"bis_certified",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range flattenMatches(evals) {
			hits, total := matchedAttributeCount(r.Candidate.Comparisons)
			rec := []string{
				r.Project,                                    // Project ID
				fmt.Sprintf(intFmt, r.Position+1),            // Line item
				strconv.Itoa(r.Rank),                         // Candidate rank
				r.Candidate.ProductID,                        // Product ID
				r.Candidate.ProductName,                      // Product name
				fmtFloat(r.Candidate.Score),                  // Match score
				fmt.Sprintf(intFmt, hits),                    // Matched attributes
				fmt.Sprintf(intFmt, total),                   // Scored attributes
				missedAttributes(r.Candidate.Comparisons),    // Missed attributes
				fmtFloat(r.Candidate.UnitPrice),              // Unit price
				fmtFloat(r.Candidate.MOQ),                    // Minimum order quantity
				fmt.Sprintf(intFmt, r.Candidate.LeadTimeDays), // Lead time
				strconv.FormatBool(r.Candidate.BISCertified), // Certification
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
