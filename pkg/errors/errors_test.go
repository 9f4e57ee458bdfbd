package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScrapeErrorMessage(t *testing.T) {
	err := NewWarehouse("loader", "load job failed", fmt.Errorf("quota exceeded"))
	assert.Equal(t, "[warehouse] loader: load job failed - quota exceeded", err.Error())

	err = NewConfiguration("BQ_TABLE_ID is required", nil)
	assert.Equal(t, "[configuration] : BQ_TABLE_ID is required", err.Error())
}

func TestIs(t *testing.T) {
	inner := NewTimeout("harvester", 15*time.Second, nil)
	wrapped := fmt.Errorf("harvest: %w", inner)

	assert.True(t, Is(wrapped, ErrorTypeTimeout))
	assert.False(t, Is(wrapped, ErrorTypeNetwork))
	assert.False(t, Is(fmt.Errorf("plain"), ErrorTypeTimeout))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NewNetwork("static", "dial", nil).IsRetryable())
	assert.True(t, NewTimeout("harvester", time.Second, nil).IsRetryable())
	assert.False(t, NewParsing("semantic", "bad json", nil).IsRetryable())
	assert.False(t, NewRateLimit("static", time.Minute).IsRetryable())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "miss", StatusMiss.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
