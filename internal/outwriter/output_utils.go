package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

const (
	factorContribMinimum = 0.5
	topNFactors          = 3
)

// factorContribution holds one factor's weighted contribution to a composite score.
type factorContribution struct {
	Name  string
	Value float64
}

// formatTopFactorBreakdown computes the top factors that drive a tender's
// composite score, ordered by weighted contribution.
func formatTopFactorBreakdown(s *schema.ScoreBreakdown) string {
	var factors []factorContribution

	for k, v := range s.Contributions {
		// Only include meaningful contributors
		if v >= factorContribMinimum {
			factors = append(factors, factorContribution{
				Name:  string(k),
				Value: v,
			})
		}
	}

	if len(factors) == 0 {
		return "Not applicable"
	}

	sort.Slice(factors, func(i, j int) bool {
		return factors[i].Value > factors[j].Value
	})

	var parts []string
	limit := min(len(factors), topNFactors)
	for i := range limit {
		parts = append(parts, factors[i].Name)
	}
	return strings.Join(parts, " > ")
}

// formatTestCodes renders the compliance tests of a priced line item as a
// compact pipe-separated list of codes.
func formatTestCodes(tests []schema.ComplianceTest) string {
	if len(tests) == 0 {
		return "-"
	}
	codes := make([]string, len(tests))
	for i, t := range tests {
		codes[i] = t.Code
		if t.Estimated {
			codes[i] += "~"
		}
	}
	return strings.Join(codes, "|")
}

// missedAttributes lists the attribute keys a candidate failed to satisfy.
func missedAttributes(comparisons []schema.AttributeComparison) string {
	var missed []string
	for _, c := range comparisons {
		if !c.Matched {
			missed = append(missed, string(c.Key))
		}
	}
	if len(missed) == 0 {
		return "-"
	}
	return strings.Join(missed, ",")
}

// matchedAttributeCount returns hit and total counts over a comparison set.
func matchedAttributeCount(comparisons []schema.AttributeComparison) (hits, total int) {
	for _, c := range comparisons {
		total++
		if c.Matched {
			hits++
		}
	}
	return hits, total
}

// getMaxTableTextWidth calculates the maximum width for free text in table
// output based on terminal width and table configuration.
func getMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Rank + Score + Grade + Total with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 50 // All factor columns (Tech + Price + Deliv + Compl + Risk + Items) with formatting
	}

	// Add explain column
	if cfg.Explain {
		baseWidth += 30 // Drivers column with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	// Calculate available space for free text
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable text width
		return 15
	}
	if available > 70 {
		// Maximum text width to prevent overly long cells
		return 70
	}
	return available
}
