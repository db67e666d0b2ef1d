package validation

import (
	"errors"
	"fmt"
)

// ErrResponseTooLarge reports a remote answer above the rule's size limit.
var ErrResponseTooLarge = errors.New("response too large")

// RemoteError describes a failed exchange with a remote validator.
type RemoteError struct {
	URL    string
	Reason string
	Err    error
}

func (e RemoteError) Error() string {
	return fmt.Sprintf("remote validation via %s: %s: %v", e.URL, e.Reason, e.Err)
}

func (e RemoteError) Unwrap() error {
	return e.Err
}
