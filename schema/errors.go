package schema

import (
	"fmt"
	"strings"

	"github.com/BaSui01/extractflow/types"
)

// Issue is a single meta-schema violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ShapeError reports every location where a schema definition violates the
// structural contract.
type ShapeError struct {
	Issues []Issue `json:"issues"`
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if len(e.Issues) == 0 {
		return "schema shape invalid"
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("schema shape invalid with %d issue(s): %s", len(e.Issues), strings.Join(parts, "; "))
}

// ErrorCode implements types.Coded.
func (e *ShapeError) ErrorCode() types.ErrorCode { return types.ErrSchemaShape }

// MalformedNodeError reports a structurally broken wire tree node.
type MalformedNodeError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed wire node at %s: %s", e.Path, e.Reason)
}

// ErrorCode implements types.Coded.
func (e *MalformedNodeError) ErrorCode() types.ErrorCode { return types.ErrMalformedWireNode }

// Malformed builds a MalformedNodeError.
func Malformed(path, format string, args ...any) *MalformedNodeError {
	return &MalformedNodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Root is the path of the top-level schema node.
const Root = "$"

// PropertyPath extends a schema path with a property segment.
func PropertyPath(base, name string) string {
	return base + ".properties." + name
}

// ItemsPath extends a schema path with the array items segment.
func ItemsPath(base string) string {
	return base + ".items"
}
