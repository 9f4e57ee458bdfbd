package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"sjsage522/newsworker/internal/models"
	"sjsage522/newsworker/pkg/errors"
)

// BigQueryWarehouse loads rows into one BigQuery table
type BigQueryWarehouse struct {
	client *bigquery.Client
	table  *bigquery.Table
}

// NewBigQueryWarehouse creates a client for project and points it at dataset.table
func NewBigQueryWarehouse(ctx context.Context, projectID, datasetID, tableID string) (*BigQueryWarehouse, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.NewWarehouse("bigquery", "failed to create client", err)
	}

	return &BigQueryWarehouse{
		client: client,
		table:  client.Dataset(datasetID).Table(tableID),
	}, nil
}

// TableExists fetches the table metadata; a 404 means it does not exist
func (w *BigQueryWarehouse) TableExists(ctx context.Context) (bool, error) {
	_, err := w.table.Metadata(ctx)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.NewWarehouse("bigquery", "failed to get table metadata", err)
}

// CreateTable creates the table. A table created concurrently is not an error.
func (w *BigQueryWarehouse) CreateTable(ctx context.Context, columns []Column) error {
	schema := make(bigquery.Schema, 0, len(columns))
	for _, c := range columns {
		schema = append(schema, &bigquery.FieldSchema{Name: c.Name, Type: bigquery.FieldType(c.Type)})
	}

	err := w.table.Create(ctx, &bigquery.TableMetadata{Schema: schema})
	switch {
	case err == nil, hasCode(err, http.StatusConflict):
		return nil
	case isNotFound(err):
		return errors.NewNotFound("bigquery", "dataset "+w.table.DatasetID, err)
	default:
		return errors.NewWarehouse("bigquery", "failed to create table", err)
	}
}

// Append uploads rows as newline-delimited JSON with WRITE_APPEND
func (w *BigQueryWarehouse) Append(ctx context.Context, rows []models.Row) (Job, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return nil, errors.NewParsing("bigquery", "failed to encode row", err)
		}
	}

	source := bigquery.NewReaderSource(&buf)
	source.SourceFormat = bigquery.JSON

	loader := w.table.LoaderFrom(source)
	loader.WriteDisposition = bigquery.WriteAppend

	job, err := loader.Run(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NewNotFound("bigquery", w.table.FullyQualifiedName(), err)
		}
		return nil, errors.NewWarehouse("bigquery", "failed to start load job", err)
	}
	return &bigQueryJob{job: job}, nil
}

// Close closes the client
func (w *BigQueryWarehouse) Close() error {
	return w.client.Close()
}

type bigQueryJob struct {
	job *bigquery.Job
}

func (j *bigQueryJob) ID() string {
	return j.job.ID()
}

func (j *bigQueryJob) Wait(ctx context.Context) (JobStatus, error) {
	status, err := j.job.Wait(ctx)
	if err != nil {
		if isNotFound(err) {
			return JobStatus{}, errors.NewNotFound("bigquery", "load job destination", err)
		}
		return JobStatus{}, errors.NewWarehouse("bigquery", "failed waiting for load job", err)
	}

	result := JobStatus{State: stateName(status.State)}
	for _, e := range status.Errors {
		result.Errors = append(result.Errors, e)
	}
	if len(result.Errors) == 0 && status.Err() != nil {
		result.Errors = append(result.Errors, status.Err())
	}
	if status.Statistics != nil {
		if stats, ok := status.Statistics.Details.(*bigquery.LoadStatistics); ok {
			result.OutputRows = stats.OutputRows
		}
	}
	return result, nil
}

func stateName(state bigquery.State) string {
	switch state {
	case bigquery.Pending:
		return StatePending
	case bigquery.Running:
		return StateRunning
	case bigquery.Done:
		return StateDone
	default:
		return "UNKNOWN"
	}
}

func isNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	return stderrors.As(err, &gerr) && gerr.Code == code
}
