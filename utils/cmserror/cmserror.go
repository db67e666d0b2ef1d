// Package cmserror provides the base error type for user-facing failures: an
// error carries a localizable message and an optional cause.
package cmserror

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/utils/messages"
)

// Error is a failure with a localizable message.
type Error struct {
	// Message is nil for errors created from plain text.
	Message *messages.Container
	Text    string
	Code    int
	Err     error
}

// New creates an error from a message key and its arguments.
func New(key string, args ...any) *Error {
	msg := messages.NewContainer(key, args...)
	return &Error{Message: &msg}
}

// Wrap creates an error from a message key that is caused by err. The cause is
// annotated with a stack trace when it does not carry one yet.
func Wrap(err error, key string, args ...any) *Error {
	e := New(key, args...)
	e.Err = withStack(err)
	return e
}

// Newf creates an error from plain text.
func Newf(format string, args ...any) *Error {
	return &Error{Text: fmt.Sprintf(format, args...)}
}

// WithCode attaches a numeric error code.
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// Error renders the message in the default locale.
func (e *Error) Error() string {
	return e.Localized(messages.DefaultLocale())
}

// Localized renders the message in the given locale, followed by the cause.
func (e *Error) Localized(tag language.Tag) string {
	text := e.Text
	if e.Message != nil {
		text = e.Message.Localize(tag)
	}
	if e.Err == nil {
		return text
	}
	if text == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", text, e.Err)
}

// MessageContainer returns the localizable message, if any.
func (e *Error) MessageContainer() (messages.Container, bool) {
	if e.Message == nil {
		return messages.Container{}, false
	}
	return *e.Message, true
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors with the same message key.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message == nil || e.Message == nil {
		return false
	}
	return t.Message.Key == e.Message.Key
}

// StackTrace renders err with the stack trace recorded for its cause, if any.
func StackTrace(err error) string {
	if err == nil {
		return ""
	}
	var cms *Error
	if pkgerrors.As(err, &cms) && cms.Err != nil {
		return fmt.Sprintf("%s\n%+v", cms.Error(), cms.Err)
	}
	return fmt.Sprintf("%+v", err)
}

// Localize renders err in tag when it is an *Error and falls back to err.Error().
func Localize(err error, tag language.Tag) string {
	if err == nil {
		return ""
	}
	var cms *Error
	if pkgerrors.As(err, &cms) {
		return cms.Localized(tag)
	}
	return err.Error()
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func withStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}
