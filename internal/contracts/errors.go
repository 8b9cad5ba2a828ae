package contracts

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a malformed or out-of-domain order row. The
// pipeline validates its whole input before computing anything, so a
// caller receiving this error got no partial result.
type InvalidInputError struct {
	Row    int    // zero-based index of the offending row, -1 if unknown
	Field  string // column name, e.g. "revenue"
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}
