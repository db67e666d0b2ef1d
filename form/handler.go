package form

// ValidationResult is the outcome of validating one field.
type ValidationResult struct {
	// NewValue replaces the widget value when HasNewValue is set.
	NewValue    string
	HasNewValue bool
	// ErrorMessage is empty when the value is valid.
	ErrorMessage string
}

// Valid reports a value that passed validation unchanged.
func Valid() ValidationResult {
	return ValidationResult{}
}

// Invalid reports a value rejected with msg.
func Invalid(msg string) ValidationResult {
	return ValidationResult{ErrorMessage: msg}
}

// Replace reports a valid value that should be replaced with value.
func Replace(value string) ValidationResult {
	return ValidationResult{NewValue: value, HasNewValue: true}
}

// IsValid reports whether the result carries no error message.
func (r ValidationResult) IsValid() bool {
	return r.ErrorMessage == ""
}

// ValidationHandler receives validation results.
type ValidationHandler interface {
	OnValidationResult(fieldID string, result ValidationResult)
	OnValidationFinished(ok bool)
}

// Validator validates fields and reports through a ValidationHandler. It must call
// OnValidationResult once per field and OnValidationFinished once, after the last result.
// Results may arrive later, but only on the form's scheduler.
type Validator interface {
	Validate(fields []Field, handler ValidationHandler)
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(fields []Field, handler ValidationHandler)

// Validate implements Validator.
func (f ValidatorFunc) Validate(fields []Field, handler ValidationHandler) {
	f(fields, handler)
}

// AcceptAll is a Validator that accepts every value as-is.
var AcceptAll Validator = ValidatorFunc(func(fields []Field, handler ValidationHandler) {
	for _, field := range fields {
		handler.OnValidationResult(field.ID(), Valid())
	}
	handler.OnValidationFinished(true)
})

// Dialog is the window hosting a form.
type Dialog interface {
	CloseDialog()
	SetOkButtonEnabled(enabled bool)
}

// SubmitHandler receives the collected values of a successfully validated form.
type SubmitHandler interface {
	OnSubmitForm(values map[string]string)
}

// SubmitHandlerFunc adapts a function into a SubmitHandler.
type SubmitHandlerFunc func(values map[string]string)

// OnSubmitForm implements SubmitHandler.
func (f SubmitHandlerFunc) OnSubmitForm(values map[string]string) {
	f(values)
}

// ResetObserver is notified after the form has been reset.
type ResetObserver interface {
	OnResetForm()
}

// ResetObserverFunc adapts a function into a ResetObserver.
type ResetObserverFunc func()

// OnResetForm implements ResetObserver.
func (f ResetObserverFunc) OnResetForm() {
	f()
}

type validationHandlerFuncs struct {
	onResult   func(fieldID string, result ValidationResult)
	onFinished func(ok bool)
}

func (h validationHandlerFuncs) OnValidationResult(fieldID string, result ValidationResult) {
	if h.onResult != nil {
		h.onResult(fieldID, result)
	}
}

func (h validationHandlerFuncs) OnValidationFinished(ok bool) {
	if h.onFinished != nil {
		h.onFinished(ok)
	}
}
