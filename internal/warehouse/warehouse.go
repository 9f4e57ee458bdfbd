// Package warehouse appends harvested rows to the destination table.
package warehouse

import (
	"context"

	"sjsage522/newsworker/internal/models"
)

// Column types understood by the warehouse
const (
	TypeString    = "STRING"
	TypeInteger   = "INTEGER"
	TypeTimestamp = "TIMESTAMP"
)

// Job states
const (
	StatePending = "PENDING"
	StateRunning = "RUNNING"
	StateDone    = "DONE"
)

// Column is one field of the destination schema
type Column struct {
	Name string
	Type string
}

// Schema is the fixed schema of the news table
var Schema = []Column{
	{Name: "orden", Type: TypeString},
	{Name: "kicker", Type: TypeString},
	{Name: "title", Type: TypeString},
	{Name: "link", Type: TypeString},
	{Name: "image_href", Type: TypeString},
	{Name: "image_src", Type: TypeString},
	{Name: "title_word_count", Type: TypeInteger},
	{Name: "title_char_count", Type: TypeInteger},
	{Name: "title_capitalized_words", Type: TypeString},
	{Name: "scraped_timestamp", Type: TypeTimestamp},
}

// Warehouse is the destination table
type Warehouse interface {
	// TableExists reports whether the destination table exists
	TableExists(ctx context.Context) (bool, error)

	// CreateTable creates the destination table with schema. A missing
	// dataset is reported as a not_found ScrapeError.
	CreateTable(ctx context.Context, schema []Column) error

	// Append submits an append-only load job for rows
	Append(ctx context.Context, rows []models.Row) (Job, error)

	// Close releases the client
	Close() error
}

// Job is a submitted load job
type Job interface {
	ID() string

	// Wait blocks until the job reaches a terminal state
	Wait(ctx context.Context) (JobStatus, error)
}

// JobStatus is the terminal state of a load job
type JobStatus struct {
	State      string
	Errors     []error
	OutputRows int64
}
