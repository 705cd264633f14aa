package logs

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

// Span identifies one unit of work in log output. Spans propagate through
// context values and are attached to every record by Handler.
type Span string

type spanKeyType struct{}

var SpanKey spanKeyType
