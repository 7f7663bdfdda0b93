package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/parquet"
	"github.com/sahajm/bidscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteEvaluationResults outputs the ranked tender evaluations, dispatching
// based on the output format configured.
func WriteEvaluationResults(result schema.EvaluationResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeEvaluationJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeEvaluationCSVResults(result, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeEvaluationParquetResults(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEvaluationTable(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeEvaluationJSONResults handles opening the file and calling the JSON writer.
func writeEvaluationJSONResults(result schema.EvaluationResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// writeEvaluationCSVResults handles opening the file and calling the CSV writer.
func writeEvaluationCSVResults(result schema.EvaluationResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForEvaluations(w, result, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeEvaluationParquetResults converts the evaluations to score records and
// writes them with the columnar writer. Parquet is file-only output.
func writeEvaluationParquetResults(result schema.EvaluationResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	records := parquet.ConvertEvaluations(result, time.Now())
	if err := parquet.WriteTenderScoresParquet(records, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}

// rankedRows enriches and truncates the evaluations to the configured limit.
func rankedRows(result schema.EvaluationResult, limit int) []schema.EnrichedTenderResult {
	rows := schema.EnrichEvaluations(result.Evaluations, result.BestIndex)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// writeEvaluationTable generates and writes the human-readable ranking table.
func writeEvaluationTable(result schema.EvaluationResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Project", "Score", "Grade", "Total"}
	if cfg.Detail {
		headers = append(headers, "Tech", "Price", "Deliv", "Compl", "Risk", "Items")
	}
	if cfg.Explain {
		headers = append(headers, "Drivers")
	}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	rows := rankedRows(result, cfg.ResultLimit)
	maxWidth := getMaxTableTextWidth(cfg)
	var data [][]string
	for _, r := range rows {
		eval := &result.Evaluations[r.Index]
		grade := r.Grade
		if cfg.UseColors {
			grade = contract.GetColorGrade(r.Score)
		}
		project := contract.TruncateText(r.Project, maxWidth)
		if r.Best {
			project = "* " + project
		}
		row := []string{
			strconv.Itoa(r.Rank),
			project,
			fmtFloat(r.Score),
			grade,
			fmtFloat(r.Total),
		}
		if cfg.Detail {
			c := eval.Score.Components
			row = append(
				row,
				fmtFloat(c[schema.FactorTechnical]),
				fmtFloat(c[schema.FactorPrice]),
				fmtFloat(c[schema.FactorDelivery]),
				fmtFloat(c[schema.FactorCompliance]),
				fmtFloat(c[schema.FactorRisk]),
				fmt.Sprintf(intFmt, len(eval.Items)),
			)
		}
		if cfg.Explain {
			row = append(row, formatTopFactorBreakdown(&eval.Score))
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
	if best := result.Best(); best != nil {
		if _, err := fmt.Fprintf(writer, "Best pick: %s (%s)\n", best.Tender.ProjectID, best.Score.Recommendation); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing top %d of %d tenders\n", len(rows), len(result.Evaluations)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Evaluation completed in %v with %d workers. Result backend: %s\n", duration, cfg.Workers, cfg.ResultBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForEvaluations writes the ranked evaluations in CSV format.
func writeCSVResultsForEvaluations(w io.Writer, result schema.EvaluationResult, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"project",
		"score",
		"grade",
		"technical",
		"price",
		"delivery",
		"compliance",
		"risk",
		"grand_total",
		"line_items",
		"best",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		rows := schema.EnrichEvaluations(result.Evaluations, result.BestIndex)
		for _, r := range rows {
			c := result.Evaluations[r.Index].Score.Components
			rec := []string{
				strconv.Itoa(r.Rank),                       // Rank
				r.Project,                                  // Project ID
				fmtFloat(r.Score),                          // Composite score
				r.Grade,                                    // Grade label
				fmtFloat(c[schema.FactorTechnical]),        // Technical
				fmtFloat(c[schema.FactorPrice]),            // Price
				fmtFloat(c[schema.FactorDelivery]),         // Delivery
				fmtFloat(c[schema.FactorCompliance]),       // Compliance
				fmtFloat(c[schema.FactorRisk]),             // Risk
				fmtFloat(r.Total),                          // Grand total
				fmt.Sprintf(intFmt, len(result.Evaluations[r.Index].Items)), // Line items
				strconv.FormatBool(r.Best),                 // Best pick
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
