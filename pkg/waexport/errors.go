package waexport

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTimestamp means a start line's date or time token did not have
	// the shape the line patterns promise. Seeing it indicates a pattern bug.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrTranscriptRead means the _chat.txt file is missing or unreadable
	ErrTranscriptRead = errors.New("transcript read failure")
)

// ParseError locates a failure inside a transcript
type ParseError struct {
	Line int
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
