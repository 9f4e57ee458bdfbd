package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML or model-response parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeTimeout represents a wait that ran out of time
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeAI represents generative model errors
	ErrorTypeAI ErrorType = "ai"
	// ErrorTypeWarehouse represents load job errors
	ErrorTypeWarehouse ErrorType = "warehouse"
	// ErrorTypeNotFound represents a missing element, dataset or table
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Status is the outcome of an extraction, harvest or load.
type Status int

const (
	// StatusOK means the operation produced its value.
	StatusOK Status = iota
	// StatusMiss means nothing failed but some or all of the value is absent.
	StatusMiss
	// StatusFailed means the operation failed and the error explains why.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMiss:
		return "miss"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ScrapeError represents a typed error raised inside one component
type ScrapeError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

// Is reports whether err carries a ScrapeError of the given type.
func Is(err error, errType ErrorType) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// New creates a new ScrapeError
func New(errType ErrorType, component, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewTimeout creates a new timeout error
func NewTimeout(component string, after time.Duration, err error) *ScrapeError {
	message := fmt.Sprintf("gave up after %v", after)
	return New(ErrorTypeTimeout, component, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(component string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, component, message, nil)
}

// NewAI creates a new generative model error
func NewAI(component, message string, err error) *ScrapeError {
	return New(ErrorTypeAI, component, message, err)
}

// NewWarehouse creates a new warehouse error
func NewWarehouse(component, message string, err error) *ScrapeError {
	return New(ErrorTypeWarehouse, component, message, err)
}

// NewNotFound creates a new not-found error
func NewNotFound(component, message string, err error) *ScrapeError {
	return New(ErrorTypeNotFound, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
