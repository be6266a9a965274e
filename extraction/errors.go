package extraction

import "fmt"

// InvalidRangeError reports a page range clause that is not a single
// integer or an integer pair.
type InvalidRangeError struct {
	Clause string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid page range clause %q", e.Clause)
}

// DocumentOpenError reports content that could not be opened as a PDF
// document. Engines wrap their open failures in it; the orchestrator turns
// it into a failed response rather than returning it to the caller.
type DocumentOpenError struct {
	Err error
}

func (e *DocumentOpenError) Error() string {
	return "opening document: " + e.Err.Error()
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }
