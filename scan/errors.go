package scan

import "fmt"

// ParseError reports that one input file could not be read or parsed.
// The build driver treats it as a file skip, never as a build failure.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
