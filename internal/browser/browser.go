// Package browser exposes the small slice of a browsing session the harvester
// needs: navigate, wait for a container, and walk elements below it.
package browser

import (
	"context"
	"time"
)

// Element is one node of a loaded page
type Element interface {
	// Attribute returns the attribute value, or nil when the element has none.
	// For href and src the value is resolved against the page URL.
	Attribute(name string) (*string, error)

	// Find returns the first descendant matching selector. A missing
	// descendant is reported as a not_found ScrapeError.
	Find(selector string) (Element, error)

	// FindAll returns every descendant matching selector in document order
	FindAll(selector string) ([]Element, error)

	// Text returns the text content of the element
	Text() (string, error)

	// OuterHTML returns the markup of the element including itself
	OuterHTML() (string, error)
}

// Session is a browsing session owned by a single harvest
type Session interface {
	// Navigate loads url into the session
	Navigate(ctx context.Context, url string) error

	// WaitVisible waits up to timeout for the first element matching selector
	// to become visible. Running out of time is a timeout ScrapeError.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// Close releases the session. Calling it more than once is a no-op.
	Close() error
}
