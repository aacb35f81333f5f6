package merchant

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries per-field messages from a rejected update.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func ValidationFailed(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
