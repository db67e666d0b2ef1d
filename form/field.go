package form

// ValidationStatus tracks whether a field's current value passed validation.
type ValidationStatus int

const (
	StatusUnknown ValidationStatus = iota
	StatusValid
	StatusInvalid
)

func (s ValidationStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Key identifies a pressed key, using the names reported by the terminal layer (e.g. "enter").
type Key string

// KeyEnter is the key that requests submission of the form.
const KeyEnter Key = "enter"

// Widget is the input element owned by a field.
type Widget interface {
	FormValue() string
	SetFormValue(value string)
	// SetErrorMessage shows msg next to the widget; an empty msg clears it.
	SetErrorMessage(msg string)
}

// ValueChangeNotifier is implemented by widgets that report committed value changes.
type ValueChangeNotifier interface {
	AddValueChangeHandler(handler func(value string))
}

// KeyPressNotifier is implemented by widgets that report key presses.
type KeyPressNotifier interface {
	AddKeyPressHandler(handler func(key Key))
}

// Blurrer is implemented by widgets that can drop focus on request.
type Blurrer interface {
	Blur()
}

// Field couples a widget with its label, description and validation status.
type Field interface {
	ID() string
	Label() string
	Description() string
	Widget() Widget
	ValidationStatus() ValidationStatus
	SetValidationStatus(status ValidationStatus)
}

// BasicField is the default Field implementation.
type BasicField struct {
	id          string
	label       string
	description string
	widget      Widget
	status      ValidationStatus
}

// NewField creates a field with an unknown validation status.
func NewField(id, label, description string, widget Widget) *BasicField {
	return &BasicField{
		id:          id,
		label:       label,
		description: description,
		widget:      widget,
	}
}

func (f *BasicField) ID() string          { return f.id }
func (f *BasicField) Label() string       { return f.label }
func (f *BasicField) Description() string { return f.description }
func (f *BasicField) Widget() Widget      { return f.widget }

func (f *BasicField) ValidationStatus() ValidationStatus {
	return f.status
}

func (f *BasicField) SetValidationStatus(status ValidationStatus) {
	f.status = status
}
