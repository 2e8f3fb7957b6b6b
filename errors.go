package lessonstore

import "fmt"

// DecodeError reports a stored value that does not match the shape its key
// implies (malformed JSON record, non-numeric recency pointer). The stored
// bytes are never defaulted or repaired; the caller decides what to do.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding value at %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
