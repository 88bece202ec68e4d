package tagsearch

import (
	"fmt"
	"strings"
)

// Operation says how the selected tags combine.
type Operation string

const (
	// OperationAnd matches containers linked to every selected tag.
	OperationAnd Operation = "AND"

	// OperationOr matches containers linked to any selected tag.
	OperationOr Operation = "OR"
)

// DefaultOperation is the operation a search form starts with.
const DefaultOperation = OperationAnd

var Operations = []Operation{OperationAnd, OperationOr}

var ErrInvalidOperation = fmt.Errorf("operation must be one of %s or %s", OperationAnd, OperationOr)

// ParseOperation is case-insensitive. An empty string is the default, AND.
func ParseOperation(s string) (Operation, error) {
	switch Operation(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return DefaultOperation, nil
	case OperationAnd:
		return OperationAnd, nil
	case OperationOr:
		return OperationOr, nil
	default:
		return "", fmt.Errorf("'%s': %w", s, ErrInvalidOperation)
	}
}

func (op Operation) MatchAll() bool {
	return op == OperationAnd
}
