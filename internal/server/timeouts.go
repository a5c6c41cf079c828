package server

import "time"

const (
	readTimeout = 10 * time.Second
	// A cold resolution can spend two upstream calls plus retries with
	// backoff, so the write budget has to cover the worst case.
	writeTimeout = 90 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
