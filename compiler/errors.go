package compiler

import (
	"fmt"
	"strings"

	"github.com/BaSui01/extractflow/types"
)

// Mismatch is a single field-level validation failure.
type Mismatch struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Message  string `json:"message"`
}

// String renders the mismatch as "path: message".
func (m Mismatch) String() string {
	if m.Path == "" {
		return m.Message
	}
	return fmt.Sprintf("%s: %s", m.Path, m.Message)
}

// MismatchError is returned by Validator when a record does not match its
// schema. It always carries at least one mismatch.
type MismatchError struct {
	Mismatches []Mismatch `json:"mismatches"`
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	switch len(e.Mismatches) {
	case 0:
		return "validation failed"
	case 1:
		return e.Mismatches[0].String()
	}
	msgs := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		msgs[i] = m.String()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e.Mismatches), strings.Join(msgs, "; "))
}

// ErrorCode implements types.Coded.
func (e *MismatchError) ErrorCode() types.ErrorCode { return types.ErrValidatorMismatch }

// First returns the first mismatch, which the gate reports as the rejection
// reason.
func (e *MismatchError) First() Mismatch {
	if len(e.Mismatches) == 0 {
		return Mismatch{Message: "validation failed"}
	}
	return e.Mismatches[0]
}
