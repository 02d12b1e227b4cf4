package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SmellKind identifies a smell category that carries a static explanation.
type SmellKind string

const (
	SmellLongMethod SmellKind = "LongMethod"
	SmellLargeClass SmellKind = "LargeClass"
	SmellCleanCode  SmellKind = "CleanCode"
)

// SmellReason is the human-readable justification attached to a finding.
type SmellReason struct {
	Reason string `json:"reason" yaml:"reason"`
	Fix    string `json:"fix" yaml:"fix"`
}

// LongMethodFinding is a function whose line span reached the long-method threshold.
// When detection failed the list holds one entry with only Error set.
type LongMethodFinding struct {
	Function    string       `json:"function" yaml:"function"`
	Start       int          `json:"start" yaml:"start"`
	End         int          `json:"end" yaml:"end"`
	Length      int          `json:"length" yaml:"length"`
	CodeSnippet string       `json:"code_snippet" yaml:"code_snippet"`
	Reason      *SmellReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error       string       `json:"-" yaml:"-"`
}

// LargeClassFinding is a class that exceeded the line or method threshold.
// When detection failed the list holds one entry with only Error set.
type LargeClassFinding struct {
	Class       string       `json:"class" yaml:"class"`
	Start       int          `json:"start" yaml:"start"`
	End         int          `json:"end" yaml:"end"`
	Lines       int          `json:"lines" yaml:"lines"`
	NumMethods  int          `json:"num_methods" yaml:"num_methods"`
	CodeSnippet string       `json:"code_snippet" yaml:"code_snippet"`
	Reason      *SmellReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error       string       `json:"-" yaml:"-"`
}

// errorEntry is the wire shape of a failed detection.
type errorEntry struct {
	Error string `json:"error" yaml:"error"`
}

// IsError reports whether f stands for a failed detection rather than a finding.
func (f LongMethodFinding) IsError() bool { return f.Error != "" }

// IsError reports whether f stands for a failed detection rather than a finding.
func (f LargeClassFinding) IsError() bool { return f.Error != "" }

// MarshalJSON writes {"error": ...} for failed detections.
func (f LongMethodFinding) MarshalJSON() ([]byte, error) {
	if f.IsError() {
		return json.Marshal(errorEntry{Error: f.Error})
	}
	type plain LongMethodFinding
	return json.Marshal(plain(f))
}

// UnmarshalJSON reads both shapes written by MarshalJSON.
func (f *LongMethodFinding) UnmarshalJSON(data []byte) error {
	type plain LongMethodFinding
	var wire struct {
		plain
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = LongMethodFinding(wire.plain)
	f.Error = wire.Error
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (f LongMethodFinding) MarshalYAML() (interface{}, error) {
	if f.IsError() {
		return errorEntry{Error: f.Error}, nil
	}
	type plain LongMethodFinding
	return plain(f), nil
}

// MarshalJSON writes {"error": ...} for failed detections.
func (f LargeClassFinding) MarshalJSON() ([]byte, error) {
	if f.IsError() {
		return json.Marshal(errorEntry{Error: f.Error})
	}
	type plain LargeClassFinding
	return json.Marshal(plain(f))
}

// UnmarshalJSON reads both shapes written by MarshalJSON.
func (f *LargeClassFinding) UnmarshalJSON(data []byte) error {
	type plain LargeClassFinding
	var wire struct {
		plain
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = LargeClassFinding(wire.plain)
	f.Error = wire.Error
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (f LargeClassFinding) MarshalYAML() (interface{}, error) {
	if f.IsError() {
		return errorEntry{Error: f.Error}, nil
	}
	type plain LargeClassFinding
	return plain(f), nil
}

// DetectionResult carries either findings or the error that stopped detection.
// Err is nil on success; Findings is empty whenever Err is set.
type DetectionResult[T any] struct {
	Findings []T
	Err      error
}

// OK reports whether detection ran to completion.
func (r DetectionResult[T]) OK() bool {
	return r.Err == nil
}

// LineRef is a 1-based source line, or the "-" placeholder used by synthetic records.
type LineRef struct {
	Number int
	Valid  bool
}

// Line returns a reference to a concrete source line.
func Line(n int) LineRef {
	return LineRef{Number: n, Valid: true}
}

// NoLine is the placeholder for records not tied to a line.
var NoLine = LineRef{}

func (l LineRef) String() string {
	if !l.Valid {
		return "-"
	}
	return strconv.Itoa(l.Number)
}

// MarshalJSON encodes a number, or "-" for the placeholder.
func (l LineRef) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte(`"-"`), nil
	}
	return []byte(strconv.Itoa(l.Number)), nil
}

// UnmarshalJSON accepts a number or any string; non-numeric strings become the placeholder.
func (l *LineRef) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Line(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("line must be a number or string: %w", err)
	}
	if n, err := strconv.Atoi(s); err == nil {
		*l = Line(n)
		return nil
	}
	*l = NoLine
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (l LineRef) MarshalYAML() (interface{}, error) {
	if !l.Valid {
		return "-", nil
	}
	return l.Number, nil
}

// Rule finding types and categories emitted for synthetic records.
const (
	RuleTypeCleanCode     = "Clean Code"
	RuleTypeLinterTimeout = "Pylint Timeout"
	RuleTypeLinterFailed  = "Pylint Failed"

	RuleCategoryNoIssues = "No issues found"
	RuleCategoryError    = "Error"
	RuleCategoryClean    = "Clean"
)

// RuleFinding is one normalized linter message.
type RuleFinding struct {
	Category    string  `json:"category" yaml:"category"`
	Type        string  `json:"type" yaml:"type"`
	Details     string  `json:"details" yaml:"details"`
	Line        LineRef `json:"line" yaml:"line"`
	CodeSnippet string  `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
}

// IsCleanMarker reports whether the record is the linter's "nothing found" marker.
func (f RuleFinding) IsCleanMarker() bool {
	return f.Type == RuleTypeCleanCode
}

// ReportSummary is either the clean reason/fix pair or the smell count with a status.
type ReportSummary struct {
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Fix        string `json:"fix,omitempty" yaml:"fix,omitempty"`
	SmellCount *int   `json:"smell_count,omitempty" yaml:"smell_count,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Summary statuses of non-clean reports.
const (
	StatusSmellsDetected = "Smells Detected"
	StatusMinorIssues    = "Minor Issues"
	StatusCleanCode      = "Clean Code"
)

// AnalysisReport is the merged verdict for one file.
type AnalysisReport struct {
	MLResult     MLResult            `json:"ml_result" yaml:"ml_result"`
	LongMethods  []LongMethodFinding `json:"long_methods" yaml:"long_methods"`
	LargeClasses []LargeClassFinding `json:"large_classes" yaml:"large_classes"`
	RuleBased    []RuleFinding       `json:"rule_based" yaml:"rule_based"`
	Summary      ReportSummary       `json:"summary" yaml:"summary"`
	Warnings     []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// IsClean reports whether the report took the clean branch.
func (r AnalysisReport) IsClean() bool {
	return r.Summary.SmellCount == nil
}

// Status returns the summary status, "Clean Code" for clean reports.
func (r AnalysisReport) Status() string {
	if r.IsClean() {
		return StatusCleanCode
	}
	return r.Summary.Status
}
