package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldUpstream   = "upstream"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldTitle      = "title"
	FieldCountry    = "country"
	FieldOutcome    = "outcome"
	FieldCategory   = "category"
	FieldAttempt    = "attempt"
	FieldDelayMS    = "delay_ms"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
