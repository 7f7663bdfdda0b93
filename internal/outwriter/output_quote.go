package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteQuoteResults outputs the commercial quote for each tender, dispatching
// based on the output format configured.
func WriteQuoteResults(evals []schema.TenderEvaluation, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeQuoteJSONResults(evals, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeQuoteCSVResults(evals, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for quote results")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQuoteTable(evals, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// quoteProjectView is the JSON shape for one tender's quote output.
type quoteProjectView struct {
	Project string                `json:"project"`
	Pricing schema.PricingSummary `json:"pricing"`
}

// writeQuoteJSONResults handles opening the file and calling the JSON writer.
func writeQuoteJSONResults(evals []schema.TenderEvaluation, cfg *contract.Config) error {
	views := make([]quoteProjectView, len(evals))
	for i, eval := range evals {
		views[i] = quoteProjectView{
			Project: eval.Tender.ProjectID,
			Pricing: eval.Pricing,
		}
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, views)
	}, "Wrote JSON")
}

// writeQuoteCSVResults handles opening the file and calling the CSV writer.
func writeQuoteCSVResults(evals []schema.TenderEvaluation, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForQuotes(w, evals, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeQuoteTable generates and writes the human-readable quote tables,
// one per tender, each with its own totals block.
func writeQuoteTable(evals []schema.TenderEvaluation, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	maxWidth := getMaxTableTextWidth(cfg)
	for _, eval := range evals {
		if _, err := fmt.Fprintf(writer, "Quote for %s\n", eval.Tender.ProjectID); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)

		// 1. Define Headers
		headers := []string{"Item", "Product", "Qty", "Unit", "Disc", "Tests", "Total"}
		if cfg.Detail {
			headers = append(headers, "Class", "TestCost", "Note")
		}
		table.Header(headers)

		// 2. Configure Separators/Borders to match a minimal look
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		// 3. Populate Rows
		var data [][]string
		for _, item := range eval.Pricing.Items {
			name := item.ProductName
			if name == "" {
				name = "(no match)"
			}
			row := []string{
				fmt.Sprintf(intFmt, item.Position+1),
				contract.TruncateText(name, maxWidth),
				schema.FormatQuantity(item.OrderQty),
				fmtFloat(item.UnitPrice),
				fmtFloat(item.DiscountPct) + "%",
				formatTestCodes(item.Tests),
				fmtFloat(item.LineTotal),
			}
			if cfg.Detail {
				note := item.Note
				if note == "" {
					note = "-"
				}
				row = append(
					row,
					string(item.VoltageClass),
					fmtFloat(item.TestCost),
					note,
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
		if _, err := fmt.Fprintf(writer, "Material: %s  Testing: %s  Grand total: %s\n\n",
			fmtFloat(eval.Pricing.TotalMaterialCost),
			fmtFloat(eval.Pricing.TotalTestCost),
			fmtFloat(eval.Pricing.GrandTotal)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Quoted %d tenders in %v with %d workers\n", len(evals), duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForQuotes writes the quote results in CSV format.
func writeCSVResultsForQuotes(w io.Writer, evals []schema.TenderEvaluation, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"project",
		"item",
		"product_id",
		"product_name",
		"requested_qty",
		"order_qty",
		"unit_price",
		"discount_pct",
		"material_cost",
		"voltage_class",
		"tests",
		"test_cost",
		"line_total",
		"note",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, eval := range evals {
			for _, item := range eval.Pricing.Items {
				rec := []string{
					eval.Tender.ProjectID,                // Project ID
					fmt.Sprintf(intFmt, item.Position+1), // Line item
					item.ProductID,                       // Product ID
					item.ProductName,                     // Product name
					fmtFloat(item.RequestedQty),          // Requested quantity
					fmtFloat(item.OrderQty),              // Order quantity
					fmtFloat(item.UnitPrice),             // Unit price
					fmtFloat(item.DiscountPct),           // Discount percent
					fmtFloat(item.MaterialCost),          // Material cost
					string(item.VoltageClass),            // Voltage class
					formatTestCodes(item.Tests),          // Compliance tests
					fmtFloat(item.TestCost),              // Test cost
					fmtFloat(item.LineTotal),             // Line total
					item.Note,                            // Degradation note
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
