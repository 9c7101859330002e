package dcps

import (
	"errors"
	"fmt"
)

// Fatal conditions of a run. None of them is retried: each one means the
// upstream content changed or needs a human.
var (
	ErrAuthentication   = errors.New("authentication error, cannot login")
	ErrPasswordReset    = errors.New("change of password requested, login manually and change your password")
	ErrStructuralChange = errors.New("portal structure changed")
)

// FormatError reports a numeric or date token that cannot be parsed.
type FormatError struct {
	Value string // offending token
	Want  string // what was expected, e.g. "number" or "DD/MM/YYYY date"
	Err   error  // underlying parse error, possibly nil
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Want, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Want, e.Value)
}

func (e *FormatError) Unwrap() error { return e.Err }
