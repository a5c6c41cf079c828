package upstream

import "time"

const (
	defaultMaxAttempts = 3
	defaultHTTPTimeout = 15 * time.Second
	backoffBase        = 1 * time.Second
	backoffCap         = 8 * time.Second
)
