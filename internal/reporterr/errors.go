// Package reporterr defines the typed errors surfaced by report normalization.
// Only structurally invalid reports produce errors; thin or partially
// unparseable data degrades to empty results instead.
package reporterr

import "fmt"

// MissingHeaderError indicates that a required header field is absent from
// the source report.
type MissingHeaderError struct {
	Field string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("report header is missing required field '%s'", e.Field)
}

// InvalidShapeError indicates that the report structure does not match the
// expected column/row contract.
type InvalidShapeError struct {
	Section string
	Reason  string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid report shape in %s: %s", e.Section, e.Reason)
}

// NoActivityError indicates that a statement yielded no material line items
// to forecast from.
type NoActivityError struct {
	Months int
}

func (e *NoActivityError) Error() string {
	return fmt.Sprintf("no drivers discovered: statement has no material line items across %d months", e.Months)
}

// ValueParseError records a monetary value that could not be parsed. The
// normalizer treats these as zero; the error type exists for callers that
// want to log the raw value.
type ValueParseError struct {
	Line  string
	Month string
	Raw   string
	Err   error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("line '%s' month '%s': failed to parse value '%s': %v",
		e.Line, e.Month, e.Raw, e.Err)
}

func (e *ValueParseError) Unwrap() error {
	return e.Err
}
