// Package form implements a dialog-hosted form container: an ordered field
// registry with change and key-press wiring, validation delegation, value
// collection and reset to the values captured at registration time.
//
// All methods must be called from the goroutine that drains the form's
// Scheduler. Validators that finish asynchronously deliver their results
// through that same Scheduler.
package form

import (
	"io"
	"log/slog"
)

// RowKind distinguishes rendered form rows.
type RowKind int

const (
	RowField RowKind = iota
	RowLabel
	RowSeparator
)

// Row is one rendered line of the form, kept in insertion order.
type Row struct {
	Kind    RowKind
	FieldID string
	Text    string
}

// Option configures a Form.
type Option func(*Form)

// WithValidator sets the validator used for all validation runs.
func WithValidator(v Validator) Option {
	return func(f *Form) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithScheduler sets the queue used for deferred tasks.
func WithScheduler(s Scheduler) Option {
	return func(f *Form) {
		if s != nil {
			f.scheduler = s
		}
	}
}

// WithDialog sets the hosting dialog.
func WithDialog(d Dialog) Option {
	return func(f *Form) {
		f.dialog = d
	}
}

// WithSubmitHandler sets the handler receiving submitted values.
func WithSubmitHandler(h SubmitHandler) Option {
	return func(f *Form) {
		f.submitHandler = h
	}
}

// WithResetObserver registers an observer notified after Reset.
func WithResetObserver(obs ResetObserver) Option {
	return func(f *Form) {
		if obs != nil {
			f.resetObservers = append(f.resetObservers, obs)
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form owns the fields of one dialog.
type Form struct {
	order         []string
	fields        map[string]Field
	initialValues map[string]string
	rows          []Row

	resetObservers []ResetObserver
	dialog         Dialog
	submitHandler  SubmitHandler
	validator      Validator
	scheduler      Scheduler
	logger         *slog.Logger

	pressedEnter bool
	inFlight     int
}

// New creates an empty form. Without WithScheduler deferred tasks run immediately,
// which is only suitable for forms without key-press handling.
func New(opts ...Option) *Form {
	f := &Form{
		fields:        make(map[string]Field),
		initialValues: make(map[string]string),
		validator:     AcceptAll,
		scheduler:     SchedulerFunc(func(task func()) { task() }),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// SetDialog sets the hosting dialog.
func (f *Form) SetDialog(d Dialog) {
	f.dialog = d
}

// SetSubmitHandler sets the handler receiving submitted values.
func (f *Form) SetSubmitHandler(h SubmitHandler) {
	f.submitHandler = h
}

// AddResetObserver registers an observer notified after Reset, in registration order.
func (f *Form) AddResetObserver(obs ResetObserver) {
	if obs != nil {
		f.resetObservers = append(f.resetObservers, obs)
	}
}

// AddFieldWithValue sets the widget value before registering the field, so the value
// becomes the reset baseline.
func (f *Form) AddFieldWithValue(field Field, initialValue string) error {
	if err := checkField(field); err != nil {
		return err
	}
	field.Widget().SetFormValue(initialValue)
	return f.AddField(field)
}

// AddField registers a field and snapshots its current value as the reset baseline.
// A field whose id is already registered replaces the earlier one in place.
func (f *Form) AddField(field Field) error {
	if err := checkField(field); err != nil {
		return err
	}
	id := field.ID()
	widget := field.Widget()
	f.initialValues[id] = widget.FormValue()

	if notifier, ok := widget.(ValueChangeNotifier); ok {
		notifier.AddValueChangeHandler(func(string) {
			f.onValueChange(field)
		})
	}
	if notifier, ok := widget.(KeyPressNotifier); ok {
		notifier.AddKeyPressHandler(func(key Key) {
			f.onKeyPress(field, key)
		})
	}

	if _, exists := f.fields[id]; exists {
		f.logger.Warn("form field replaced", slog.String("field", id))
	} else {
		f.order = append(f.order, id)
		f.rows = append(f.rows, Row{Kind: RowField, FieldID: id, Text: field.Label()})
	}
	f.fields[id] = field
	return nil
}

// AddLabel appends a free text row.
func (f *Form) AddLabel(text string) {
	f.rows = append(f.rows, Row{Kind: RowLabel, Text: text})
}

// AddSeparator appends a separator row.
func (f *Form) AddSeparator() {
	f.rows = append(f.rows, Row{Kind: RowSeparator})
}

// Rows returns the render rows in insertion order.
func (f *Form) Rows() []Row {
	out := make([]Row, len(f.rows))
	copy(out, f.rows)
	return out
}

// Field returns the field registered under id.
func (f *Form) Field(id string) (Field, bool) {
	field, ok := f.fields[id]
	return field, ok
}

// Fields returns the registered fields in registration order.
func (f *Form) Fields() []Field {
	out := make([]Field, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.fields[id])
	}
	return out
}

// InitialValue returns the reset baseline of a field.
func (f *Form) InitialValue(id string) (string, bool) {
	val, ok := f.initialValues[id]
	return val, ok
}

// PressedEnter reports whether an Enter key press is still being processed.
func (f *Form) PressedEnter() bool {
	return f.pressedEnter
}

// Validating reports whether a validation run has not finished yet.
func (f *Form) Validating() bool {
	return f.inFlight > 0
}

// CollectValues reads the current value of every field from its widget.
func (f *Form) CollectValues() map[string]string {
	values := make(map[string]string, len(f.order))
	for _, id := range f.order {
		values[id] = f.fields[id].Widget().FormValue()
	}
	return values
}

// NoFieldsInvalid reports whether none of fields has status StatusInvalid.
// Fields that were never validated do not count as invalid.
func (f *Form) NoFieldsInvalid(fields []Field) bool {
	for _, field := range fields {
		if field.ValidationStatus() == StatusInvalid {
			return false
		}
	}
	return true
}

// Reset restores every field to its initial value, clears error messages and
// notifies reset observers.
func (f *Form) Reset() {
	for _, id := range f.order {
		field := f.fields[id]
		field.SetValidationStatus(StatusUnknown)
		field.Widget().SetFormValue(f.initialValues[id])
		field.Widget().SetErrorMessage("")
	}
	f.updateOkButton()
	for _, obs := range f.resetObservers {
		obs.OnResetForm()
	}
}

// ValidateField validates a single field and updates OK button enablement.
func (f *Form) ValidateField(field Field) {
	if field == nil {
		return
	}
	f.startValidation([]Field{field}, f.defaultHandler())
}

// DoInitialValidation validates every field without submitting.
func (f *Form) DoInitialValidation() {
	f.startValidation(f.Fields(), f.defaultHandler())
}

// ValidateAndSubmit validates every field. When all pass, the dialog is closed and
// the collected values are handed to the submit handler.
func (f *Form) ValidateAndSubmit() {
	f.startValidation(f.Fields(), validationHandlerFuncs{
		onResult: f.updateFieldValidationStatus,
		onFinished: func(ok bool) {
			if !ok {
				f.updateOkButton()
				return
			}
			if f.dialog != nil {
				f.dialog.CloseDialog()
			}
			if f.submitHandler != nil {
				f.submitHandler.OnSubmitForm(f.CollectValues())
			}
		},
	})
}

func (f *Form) defaultHandler() ValidationHandler {
	return validationHandlerFuncs{
		onResult: f.updateFieldValidationStatus,
		onFinished: func(bool) {
			f.updateOkButton()
		},
	}
}

func (f *Form) startValidation(fields []Field, handler ValidationHandler) {
	f.inFlight++
	f.validator.Validate(fields, validationHandlerFuncs{
		onResult: handler.OnValidationResult,
		onFinished: func(ok bool) {
			f.inFlight--
			handler.OnValidationFinished(ok)
		},
	})
}

func (f *Form) updateFieldValidationStatus(fieldID string, result ValidationResult) {
	field, ok := f.fields[fieldID]
	if !ok {
		f.logger.Warn("validation result for unknown field", slog.String("field", fieldID))
		return
	}
	if result.HasNewValue {
		field.Widget().SetFormValue(result.NewValue)
	}
	field.Widget().SetErrorMessage(result.ErrorMessage)
	if result.IsValid() {
		field.SetValidationStatus(StatusValid)
	} else {
		field.SetValidationStatus(StatusInvalid)
	}
}

func (f *Form) updateOkButton() {
	if f.dialog != nil {
		f.dialog.SetOkButtonEnabled(f.NoFieldsInvalid(f.Fields()))
	}
}

func (f *Form) onValueChange(field Field) {
	if !f.isCurrent(field) {
		return
	}
	field.SetValidationStatus(StatusUnknown)
	// Enter fires its key press before the change it provokes, so the flag is
	// still set when the change arrives.
	if !f.pressedEnter {
		f.ValidateField(field)
	} else {
		f.ValidateAndSubmit()
	}
}

func (f *Form) onKeyPress(field Field, key Key) {
	if !f.isCurrent(field) || key != KeyEnter {
		return
	}
	f.pressedEnter = true
	if blurrer, ok := field.Widget().(Blurrer); ok {
		blurrer.Blur()
	}
	f.scheduler.Defer(func() {
		f.pressedEnter = false
	})
}

func (f *Form) isCurrent(field Field) bool {
	current, ok := f.fields[field.ID()]
	if !ok || current != field {
		f.logger.Debug("ignoring event from replaced field", slog.String("field", field.ID()))
		return false
	}
	return true
}

func checkField(field Field) error {
	if field == nil {
		return FieldError{Reason: "field must not be nil"}
	}
	if field.ID() == "" {
		return FieldError{Reason: "field id must not be empty"}
	}
	if field.Widget() == nil {
		return FieldError{ID: field.ID(), Reason: "field has no widget"}
	}
	return nil
}
