package pipeline

import (
	"errors"
	"fmt"
)

// ErrVideoExists signals an ingest against an id that already has clip
// records. It is a conflict, not a failure: callers report it and exit
// cleanly unless --force was given.
var ErrVideoExists = errors.New("video already exists")

// ErrEmptyInput signals a downloads file with no usable clip lines.
var ErrEmptyInput = errors.New("no clip lines to process")

// MalformedLineError reports a clip line that failed validation. Ingest
// validates every line before any fetch work starts, so one bad line
// aborts the whole run with nothing half-done.
type MalformedLineError struct {
	Line string
	Err  error
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed clip line %q: %v", e.Line, e.Err)
}

func (e *MalformedLineError) Unwrap() error {
	return e.Err
}
