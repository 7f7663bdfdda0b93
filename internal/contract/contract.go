// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/sahajm/bidscope/schema"
)

// TenderSource supplies the ordered sequence of tenders to evaluate.
// This allows the pipeline to be tested without real tender files.
type TenderSource interface {
	// Load returns all tenders in ingestion order.
	Load() ([]schema.Tender, error)
}

// ReferenceData exposes the immutable reference tables loaded once per run.
// Implementations must be safe for concurrent reads.
type ReferenceData interface {
	// Products returns the catalog rows in load order.
	Products() []schema.CatalogProduct

	// ProductByID returns the catalog row for an identifier.
	ProductByID(id string) (schema.CatalogProduct, bool)

	// DiscountBands returns the volume discount bands per product.
	DiscountBands() map[string][]schema.VolumeDiscount

	// TestServices returns the test-services table keyed by code.
	TestServices() map[string]schema.TestService

	// Status summarizes the loaded reference data.
	Status() schema.CatalogStatus
}

// ResultStore defines the interface for tracking evaluation runs and
// storing per-tender scores.
type ResultStore interface {
	// BeginRun creates a new evaluation run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the evaluation run with completion data
	EndRun(runID int64, endTime time.Time, tendersEvaluated int) error

	// RecordTenderScore stores the score breakdown for one tender
	RecordTenderScore(runID int64, record schema.TenderScoreRecord) error

	// GetStatus returns status information about the result store
	GetStatus() (schema.ResultsStatus, error)

	// ClearRuns deletes all stored runs and scores, returning the number
	// of runs removed
	ClearRuns() (int64, error)

	// ListTenderScores returns stored scores, newest runs first, up to limit
	ListTenderScores(limit int) ([]schema.TenderScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
