package entry

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVersion is wrapped by DecodeError when a snapshot was written
// by an incompatible encoder.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// DecodeError reports a malformed or unsupported entry snapshot.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode entry snapshot: %s: %v", e.Reason, e.Err)
	}
	return "decode entry snapshot: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(reason string, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}
