package form

import "fmt"

// FieldError reports a field that cannot be registered.
type FieldError struct {
	ID     string
	Reason string
}

func (e FieldError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid form field: %s", e.Reason)
	}
	return fmt.Sprintf("invalid form field %q: %s", e.ID, e.Reason)
}
