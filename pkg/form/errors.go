package form

import "fmt"

// ValueKindError reports a properties payload whose kind does not fit a
// multi-valued attribute. It signals a caller bug, not bad user input.
type ValueKindError struct {
	Code  string
	Value any
}

func (e *ValueKindError) Error() string {
	return fmt.Sprintf("form: attribute %q is multiple and expects a string or a slice, got %T", e.Code, e.Value)
}
