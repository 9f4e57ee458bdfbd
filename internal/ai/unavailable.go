package ai

import "context"

// Unavailable stands in for a model whose client could not be created.
// Generate returns the setup error, so each card fails on its own.
type Unavailable struct {
	name string
	err  error
}

// NewUnavailable creates a model that always fails with err
func NewUnavailable(name string, err error) *Unavailable {
	return &Unavailable{name: name, err: err}
}

// Generate returns the setup error
func (u *Unavailable) Generate(ctx context.Context, prompt string) (string, error) {
	return "", u.err
}

// Name returns the model identifier
func (u *Unavailable) Name() string {
	return u.name
}
