package gate

import (
	"fmt"
	"strings"

	"github.com/BaSui01/extractflow/types"
)

// Markers appended to rejected records.
const (
	FieldValidationError = "_validationError"
	FieldSkipAgents      = "_skipAgents"
)

// summaryErrorLimit is how many error messages Summary reports.
const summaryErrorLimit = 3

// RecordError describes one rejected record. Data is the original input.
type RecordError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
	Data  any    `json:"data"`
}

// Err returns the rejection as a GATE_REJECTION error.
func (e RecordError) Err() error {
	return types.NewError(types.ErrGateRejection, e.Error).WithPath(fmt.Sprintf("[%d]", e.Index))
}

// Result is the partition of one batch.
type Result struct {
	Valid            []any         `json:"valid"`
	Invalid          []any         `json:"invalid"`
	ValidCount       int           `json:"validCount"`
	InvalidCount     int           `json:"invalidCount"`
	ValidationErrors []RecordError `json:"validationErrors"`
}

// Summary is a short report derived from a Result.
type Summary struct {
	ValidCount   int      `json:"validCount"`
	InvalidCount int      `json:"invalidCount"`
	Errors       []string `json:"errors,omitempty"`
}

// String renders the summary on one line.
func (s Summary) String() string {
	line := fmt.Sprintf("%d valid, %d invalid", s.ValidCount, s.InvalidCount)
	if len(s.Errors) > 0 {
		line += ": " + strings.Join(s.Errors, "; ")
	}
	return line
}

// Summary reports the counts and up to the first three error messages.
func (r *Result) Summary() Summary {
	s := Summary{ValidCount: r.ValidCount, InvalidCount: r.InvalidCount}
	for i, e := range r.ValidationErrors {
		if i == summaryErrorLimit {
			break
		}
		s.Errors = append(s.Errors, fmt.Sprintf("record %d: %s", e.Index, e.Error))
	}
	return s
}

func newResult(n int) *Result {
	return &Result{
		Valid:            make([]any, 0, n),
		Invalid:          []any{},
		ValidationErrors: []RecordError{},
	}
}

// markRejected returns a shallow copy of record with the rejection markers
// appended. Non-object records become an empty object.
func markRejected(record any, reason string) map[string]any {
	src, _ := record.(map[string]any)
	out := make(map[string]any, len(src)+2)
	for k, v := range src {
		out[k] = v
	}
	out[FieldValidationError] = reason
	out[FieldSkipAgents] = true
	return out
}
