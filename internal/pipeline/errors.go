package pipeline

import "fmt"

// SourceNotFoundError means the document handle could not be opened.
// The pipeline fails before emitting any result.
type SourceNotFoundError struct {
	Source string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s: %v", e.Source, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// StagingError means the local working copy could not be created. No
// chunk is emitted; cleanup still runs.
type StagingError struct {
	Err error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging failed: %v", e.Err)
}

func (e *StagingError) Unwrap() error { return e.Err }

// ExtractionError means text extraction failed mid-stream. Results
// emitted before it remain valid. Page is the first page of the failed
// range, or 0 when the failure is not tied to a specific page.
type ExtractionError struct {
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extraction failed at page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
