package loader

import (
	"errors"
	"fmt"
)

// UnsupportedFormatError is returned when no loader is registered for a
// file extension.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension: %q", e.Extension)
}

func IsUnsupportedFormat(err error) bool {
	var u *UnsupportedFormatError
	return errors.As(err, &u)
}

// LoadError wraps a failure to read or extract a document.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func joinErrs(errs ...error) error {
	return errors.Join(errs...)
}
