package api

import "sort"

// fallbackMessage is shown when a response carries no usable error text.
const fallbackMessage = "Something went wrong. Please try again."

// Error is a decoded API failure. Server error bodies vary in shape, so
// every recognised field is captured here and message selection happens
// in one place (UserMessage) instead of ad hoc probing at call sites.
type Error struct {
	Status  int
	Fields  map[string]string // per-field validation messages
	Detail  string            // non-field error text ("error")
	Message string            // generic message ("message")
}

func (e *Error) Error() string {
	return e.UserMessage()
}

// UserMessage picks the text to show the user, in priority order:
// a field-specific error, then the non-field error, then the generic
// message, then a fallback. Field errors are scanned in sorted key
// order so selection is deterministic.
func (e *Error) UserMessage() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if e.Fields[k] != "" {
				return e.Fields[k]
			}
		}
	}
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage
}

// FieldError returns the message for one field, or "".
func (e *Error) FieldError(field string) string {
	return e.Fields[field]
}

// IsUnauthorized reports whether the failure was an auth rejection.
func (e *Error) IsUnauthorized() bool {
	return e.Status == 401
}
