package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

// deadlineFormats are the accepted deadline layouts, tried in order.
// Upstream tender documents are inconsistent about date formatting.
var deadlineFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"02 Jan 2006",
	"2 January 2006",
	"January 2, 2006",
}

// tenderRecord mirrors schema.Tender with a free-text deadline field,
// parsed leniently after decoding.
type tenderRecord struct {
	ProjectID          string `json:"project_id"`
	Authority          string `json:"authority"`
	Category           string `json:"category"`
	Deadline           string `json:"deadline"`
	Overview           string `json:"overview"`
	ScopeOfSupply      string `json:"scope_of_supply"`
	TechnicalSpecs     string `json:"technical_specs"`
	TestingRequirement string `json:"testing_requirement"`
	DeliveryTimeline   string `json:"delivery_timeline"`
	Pricing            string `json:"pricing"`
	EvaluationCriteria string `json:"evaluation_criteria"`
	SubmissionFormat   string `json:"submission_format"`
}

// FileTenderSource loads tenders from a JSON file holding an ordered array
// of tender records.
type FileTenderSource struct {
	path string
}

var _ contract.TenderSource = &FileTenderSource{} // Compile-time check

// NewFileTenderSource creates a tender source for the given JSON file path.
func NewFileTenderSource(path string) *FileTenderSource {
	return &FileTenderSource{path: path}
}

// Load returns all tenders in ingestion order.
func (s *FileTenderSource) Load() ([]schema.Tender, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenders file %s: %w", s.path, err)
	}

	var records []tenderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse tenders file %s: %w", s.path, err)
	}

	tenders := make([]schema.Tender, 0, len(records))
	for i, rec := range records {
		if rec.ProjectID == "" {
			contract.LogWarn("tender skipped", fmt.Errorf("%s record %d: empty project_id", s.path, i))
			continue
		}
		tenders = append(tenders, schema.Tender{
			ProjectID:          rec.ProjectID,
			Authority:          rec.Authority,
			Category:           rec.Category,
			Deadline:           parseDeadline(rec.ProjectID, rec.Deadline),
			Overview:           rec.Overview,
			ScopeOfSupply:      rec.ScopeOfSupply,
			TechnicalSpecs:     rec.TechnicalSpecs,
			TestingRequirement: rec.TestingRequirement,
			DeliveryTimeline:   rec.DeliveryTimeline,
			Pricing:            rec.Pricing,
			EvaluationCriteria: rec.EvaluationCriteria,
			SubmissionFormat:   rec.SubmissionFormat,
		})
	}
	return tenders, nil
}

// parseDeadline tries each accepted layout in turn. An unparseable value
// returns the zero time, which downstream treats as "no deadline".
func parseDeadline(projectID, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	contract.LogWarn("unparseable deadline", fmt.Errorf("tender %s: %q", projectID, value))
	return time.Time{}
}
