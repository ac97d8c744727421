package kafka

import "time"

// Config holds broker connection parameters for the producer.
type Config struct {
	Brokers []string

	// TLS enables TLS on broker connections.
	TLS bool

	// BatchTimeout bounds how long a writer buffers messages before
	// flushing. Zero selects a 10ms default.
	BatchTimeout time.Duration
}
