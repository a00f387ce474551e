package quote

import "fmt"

// ParseError records a field that could not be coerced during normalization.
// It is informational: the offending value is replaced with a documented
// default and processing continues.
type ParseError struct {
	Field string
	Value string
	Ref   ItemRef
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s %q for item %s", e.Field, e.Value, e.Ref)
}

// ValidationError is returned when a state transition guard fails. It names
// the missing or invalid field so the caller can surface it to the user.
// It is fatal to the call and never partially commits.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConsistencyError is returned when an approvedItems or selectedItems
// reference does not resolve against the quotation's current items. It is
// surfaced verbatim, never silently dropped.
type ConsistencyError struct {
	Ref    ItemRef
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("item %s: %s", e.Ref, e.Detail)
}
