package domain

import "fmt"

// LineError describes a source line that was not stored.
type LineError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// Error implements the error interface.
func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// IngestResult summarises loading one line-delimited JSON source.
type IngestResult struct {
	// Source names the file or stream that was read.
	Source string `json:"source"`

	// Lines is the number of non-blank lines read.
	Lines int `json:"lines"`

	// Loaded is the number of records stored.
	Loaded int `json:"loaded"`

	// Skipped counts malformed lines.
	Skipped int `json:"skipped"`

	// Failed counts well-formed lines the store rejected.
	Failed int `json:"failed"`

	// Stored is the record store total once this source was committed.
	Stored int `json:"stored"`

	// Errors lists every skipped or failed line.
	Errors []LineError `json:"errors,omitempty"`
}

// Merge adds another result's counts into r. Stored takes the later total.
func (r *IngestResult) Merge(other IngestResult) {
	r.Stored = other.Stored
	r.Lines += other.Lines
	r.Loaded += other.Loaded
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
}
