package warehouse

import (
	"context"
	"fmt"

	"sjsage522/newsworker/internal/table"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
)

// LoadResult is the outcome of one load.
//
// StatusOK: Rows were appended. StatusMiss: there was nothing to load.
// StatusFailed: no row count is known; Err and JobErrors say why.
type LoadResult struct {
	Status    errors.Status
	Rows      int64
	JobID     string
	JobErrors []error
	Err       error
}

// Loader appends tables to a warehouse
type Loader struct {
	warehouse Warehouse
	dataset   string
	table     string
	log       *logger.Logger
}

// NewLoader creates a loader. dataset and table are only used in diagnostics.
func NewLoader(w Warehouse, dataset, table string) *Loader {
	return &Loader{
		warehouse: w,
		dataset:   dataset,
		table:     table,
		log:       logger.ForLoader().WithField("table", table),
	}
}

// EnsureTable creates the destination table with Schema when it does not
// exist. Check and create are not atomic; a single writer is assumed.
func (l *Loader) EnsureTable(ctx context.Context) error {
	exists, err := l.warehouse.TableExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		l.log.Debug().Msg("Table already exists")
		return nil
	}

	l.log.Info().Msg("Table does not exist, creating")
	if err := l.warehouse.CreateTable(ctx, Schema); err != nil {
		return err
	}
	l.log.Info().Msg("Table created")
	return nil
}

// Load ensures the table exists, appends tbl and waits for the job. It never
// panics or returns an error; callers inspect the LoadResult status.
func (l *Loader) Load(ctx context.Context, tbl *table.Table) (result LoadResult) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewWarehouse("loader", "load panicked", fmt.Errorf("%v", r))
			l.log.Error().Err(err).Msg("Unexpected load failure")
			result = LoadResult{Status: errors.StatusFailed, Err: err}
		}
	}()

	if tbl.Len() == 0 {
		l.log.Warn().Msg("Nothing to load")
		return LoadResult{Status: errors.StatusMiss}
	}

	if err := l.EnsureTable(ctx); err != nil {
		return l.fail(err)
	}

	job, err := l.warehouse.Append(ctx, tbl.Rows)
	if err != nil {
		return l.fail(err)
	}

	log := l.log.WithField("job_id", job.ID())
	status, err := job.Wait(ctx)
	if err != nil {
		result = l.fail(err)
		result.JobID = job.ID()
		return result
	}
	log.Info().Str("state", status.State).Msg("Job finished")

	if len(status.Errors) > 0 {
		for _, jobErr := range status.Errors {
			log.Error().Err(jobErr).Msg("Load job error")
		}
		return LoadResult{
			Status:    errors.StatusFailed,
			JobID:     job.ID(),
			JobErrors: status.Errors,
			Err:       errors.NewWarehouse("loader", fmt.Sprintf("load job reported %d error(s)", len(status.Errors)), status.Errors[0]),
		}
	}

	if status.State != StateDone {
		log.Warn().Str("state", status.State).Msg("Job finished in an unexpected state")
		return LoadResult{
			Status: errors.StatusFailed,
			JobID:  job.ID(),
			Err:    errors.NewWarehouse("loader", "job finished in state "+status.State, nil),
		}
	}

	log.Info().
		Int64("rows", status.OutputRows).
		Str("dataset", l.dataset).
		Msg("Rows loaded")
	return LoadResult{Status: errors.StatusOK, Rows: status.OutputRows, JobID: job.ID()}
}

func (l *Loader) fail(err error) LoadResult {
	switch {
	case errors.Is(err, errors.ErrorTypeNotFound):
		l.log.Error().Err(err).Msgf("Dataset '%s' or table '%s' not found", l.dataset, l.table)
	case errors.Is(err, errors.ErrorTypeConfiguration):
		l.log.Error().Err(err).Msg("Warehouse is not configured")
	default:
		l.log.Error().Err(err).Msg("Unexpected load failure")
	}
	return LoadResult{Status: errors.StatusFailed, Err: err}
}
