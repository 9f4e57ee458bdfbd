package warehouse

import (
	"context"

	"sjsage522/newsworker/internal/models"
)

// Unavailable stands in for a warehouse that could not be set up. Every call
// returns the setup error, so the Loader reports it when a load is attempted.
type Unavailable struct {
	err error
}

var _ Warehouse = (*Unavailable)(nil)

// NewUnavailable creates a warehouse that always fails with err
func NewUnavailable(err error) *Unavailable {
	return &Unavailable{err: err}
}

func (u *Unavailable) TableExists(ctx context.Context) (bool, error) {
	return false, u.err
}

func (u *Unavailable) CreateTable(ctx context.Context, columns []Column) error {
	return u.err
}

func (u *Unavailable) Append(ctx context.Context, rows []models.Row) (Job, error) {
	return nil, u.err
}

func (u *Unavailable) Close() error {
	return nil
}
