package domain

import (
	"errors"
	"fmt"
)

// ErrFormat marks a cell that cannot be parsed into its column's type.
var ErrFormat = errors.New("data format error")

// FormatError reports the table cell that failed to parse. It matches ErrFormat
// under errors.Is.
type FormatError struct {
	Table  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s row %d: column %q: invalid value %q", e.Table, e.Row, e.Column, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
