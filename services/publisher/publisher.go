package publisher

import "io"

// Publisher fans uploaded rows out to downstream consumers
type Publisher interface {
	io.Closer

	// Publish sends one encoded row stored under field
	Publish(field string, payload []byte) error

	// TrimStreams caps every shard at the configured length
	TrimStreams() error
}
