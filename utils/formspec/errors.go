package formspec

import "fmt"

// DuplicateFieldError occurs when two inputs share an id.
type DuplicateFieldError struct {
	ID string
}

func (e DuplicateFieldError) Error() string {
	return fmt.Sprintf("field with id %q already defined", e.ID)
}

// DefinitionError reports an unusable field definition.
type DefinitionError struct {
	ID     string
	Index  int
	Reason string
}

func (e DefinitionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid field definition #%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid field definition %q: %s", e.ID, e.Reason)
}
