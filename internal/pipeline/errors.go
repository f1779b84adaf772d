package pipeline

import (
	"fmt"
	"strings"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
)

// ParseError reports a sent_at value that no accepted layout matches.
type ParseError struct {
	Row   int
	Value string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d: cannot parse sent_at %q", apperr.CodeParse, e.Row, e.Value)
}

func (e *ParseError) Code() string  { return apperr.CodeParse }
func (e *ParseError) Unwrap() error { return e.Cause }

// SchemaError reports missing required columns, or a row too short to hold them.
// Row is -1 when the header itself is at fault.
type SchemaError struct {
	Missing []string
	Row     int
}

func (e *SchemaError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: row %d: missing fields %s", apperr.CodeSchema, e.Row, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: missing required columns %s", apperr.CodeSchema, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Code() string { return apperr.CodeSchema }

// RowErrors collects the rows skipped by EnrichLenient.
type RowErrors []*ParseError

func (r RowErrors) Error() string {
	switch len(r) {
	case 0:
		return "no row errors"
	case 1:
		return r[0].Error()
	}
	return fmt.Sprintf("%s (and %d more rows)", r[0].Error(), len(r)-1)
}
