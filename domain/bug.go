package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Severity is the five-level bug severity with a fixed total order.
// The ordinal values ARE the sort order (critical sorts first); keeping the
// ranking in the type makes sort stability and the propagation downgrade
// rule a compile-time property instead of a runtime convention.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityMedium
	SeverityLow
	SeverityInfo
)

// severityNames maps severities to their wire representation
var severityNames = map[Severity]string{
	SeverityCritical: "critical",
	SeverityHigh:     "high",
	SeverityMedium:   "medium",
	SeverityLow:      "low",
	SeverityInfo:     "info",
}

// String returns string representation of Severity
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// Rank returns the sort rank of the severity (critical = 0, info = 4).
// Unknown severities rank after every known one.
func (s Severity) Rank() int {
	if _, ok := severityNames[s]; ok {
		return int(s)
	}
	return len(severityNames)
}

// ParseSeverity parses a severity name. Unrecognized names map to
// SeverityInfo rather than failing; degenerate input never aborts a run.
func ParseSeverity(name string) Severity {
	for sev, n := range severityNames {
		if n == name {
			return sev
		}
	}
	return SeverityInfo
}

// MarshalJSON serializes the severity as its lowercase name
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the severity from its lowercase name
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = ParseSeverity(name)
	return nil
}

// MarshalYAML serializes the severity as its lowercase name
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses the severity from its lowercase name
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	*s = ParseSeverity(name)
	return nil
}

// Bug represents one defect record, produced either by an upstream
// pattern-based detector or by the clone propagation engine. Bugs are
// immutable once appended to a bug list.
type Bug struct {
	File       string   `json:"file" yaml:"file"`
	Function   string   `json:"function" yaml:"function"`
	Line       int      `json:"line" yaml:"line"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Category   string   `json:"category" yaml:"category"`
	Message    string   `json:"message" yaml:"message"`
	Evidence   string   `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Detector   string   `json:"detector" yaml:"detector"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Key returns the identity key of the code unit this bug is attached to
func (b *Bug) Key() UnitKey {
	return UnitKey{File: b.File, Function: b.Function}
}

// String returns string representation of Bug
func (b *Bug) String() string {
	return fmt.Sprintf("[%s] %s:%d %s", b.Severity.String(), b.File, b.Line, b.Message)
}

// PropagationRequest represents a request for bug propagation over clone reports
type PropagationRequest struct {
	// Input
	Bugs    []*Bug          `json:"-"`
	Reports []*FusionReport `json:"-"`

	// ScoreThreshold is the minimum fusion score for a report to act as
	// a propagation edge
	ScoreThreshold float64 `json:"score_threshold"`

	// MergeResults controls whether the response also carries the merged,
	// deduplicated, severity-sorted bug list
	MergeResults bool `json:"merge_results"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	OutputPath   string       `json:"output_path"`
	NoOpen       bool         `json:"no_open"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// Validate validates a propagation request
func (req *PropagationRequest) Validate() error {
	if req.ScoreThreshold < 0.0 || req.ScoreThreshold > 1.0 {
		return NewValidationError("score_threshold must be between 0.0 and 1.0")
	}
	return nil
}

// BugStatistics provides statistics about a bug list
type BugStatistics struct {
	TotalBugs     int            `json:"total_bugs" yaml:"total_bugs"`
	BySeverity    map[string]int `json:"by_severity" yaml:"by_severity"`
	ByCategory    map[string]int `json:"by_category" yaml:"by_category"`
	ByDetector    map[string]int `json:"by_detector" yaml:"by_detector"`
	FilesWithBugs int            `json:"files_with_bugs" yaml:"files_with_bugs"`
}

// NewBugStatistics creates a new bug statistics instance
func NewBugStatistics() *BugStatistics {
	return &BugStatistics{
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
		ByDetector: make(map[string]int),
	}
}

// PropagationResponse represents the response from bug propagation
type PropagationResponse struct {
	// PropagatedBugs holds only the newly synthesized bugs
	PropagatedBugs []*Bug `json:"propagated_bugs" yaml:"propagated_bugs"`

	// MergedBugs is the full bug list (input + propagated), deduplicated
	// and sorted by severity; populated only when MergeResults was set
	MergedBugs []*Bug `json:"merged_bugs,omitempty" yaml:"merged_bugs,omitempty"`

	Statistics *BugStatistics `json:"statistics" yaml:"statistics"`
	Duration   int64          `json:"duration_ms" yaml:"duration_ms"`
}

// PropagationService defines the interface for bug propagation services
type PropagationService interface {
	// PropagateBugs spreads known bugs across qualifying clone edges
	PropagateBugs(ctx context.Context, req *PropagationRequest) (*PropagationResponse, error)
}

// BugOutputFormatter defines the interface for formatting propagation results
type BugOutputFormatter interface {
	// FormatPropagationResponse formats a propagation response according to the specified format
	FormatPropagationResponse(response *PropagationResponse, format OutputFormat, writer io.Writer) error
}
