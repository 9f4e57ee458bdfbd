package crawler

import (
	"context"

	"sjsage522/newsworker/internal/browser"
	"sjsage522/newsworker/internal/models"
	"sjsage522/newsworker/internal/table"
	"sjsage522/newsworker/pkg/errors"
)

// Extraction is the outcome of extracting one news card.
//
// StatusOK: every field was found. StatusMiss: the record is usable but the
// fields named in Missing are nil. StatusFailed: Err explains the failure and
// Record may be nil.
type Extraction struct {
	Record  *models.NewsRecord
	Status  errors.Status
	Missing []string
	Err     error
}

// Extractor turns one news card into a record
type Extractor interface {
	// Extract never panics and never returns an error; failures are reported
	// through the Extraction status
	Extract(ctx context.Context, card browser.Element) Extraction

	// Name identifies the extractor in logs
	Name() string
}

// HarvestResult is the outcome of one harvest.
//
// StatusOK: Records holds at least one record and Table is set.
// StatusMiss: the page loaded but no card produced a record.
// StatusFailed: the page or container could not be reached; Err says why.
type HarvestResult struct {
	Status  errors.Status
	Records []models.NewsRecord
	Table   *table.Table
	Cards   int
	Failed  int
	Err     error
}
