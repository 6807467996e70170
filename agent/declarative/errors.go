package declarative

import (
	"fmt"

	"github.com/BaSui01/extractflow/types"
)

// AgentListError is the first violation found in an agent list. Index is
// the offending element, or -1 for list-level problems.
type AgentListError struct {
	Reason  Reason `json:"reason"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AgentListError) Error() string {
	if e.Index < 0 {
		return "agent list: " + e.Message
	}
	return fmt.Sprintf("agent list[%d]: %s", e.Index, e.Message)
}

// ErrorCode implements types.Coded.
func (e *AgentListError) ErrorCode() types.ErrorCode { return types.ErrAgentList }

func listError(reason Reason, format string, args ...any) *AgentListError {
	return &AgentListError{Reason: reason, Index: -1, Message: fmt.Sprintf(format, args...)}
}

func itemError(index int, reason Reason, format string, args ...any) *AgentListError {
	return &AgentListError{Reason: reason, Index: index, Message: fmt.Sprintf(format, args...)}
}
