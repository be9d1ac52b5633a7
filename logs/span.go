package logs

// Span names one run of a pipeline; log records carry the span of the
// context they were emitted under.
type Span string

type spanKeyType struct{}

var SpanKey spanKeyType
