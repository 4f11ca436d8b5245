package domain

import (
	"io"
)

// OutputFormat represents the output format for analysis results
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// IsValid reports whether the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return true
	}
	return false
}

// SortCriteria defines how to sort fusion reports
type SortCriteria string

const (
	SortByScore    SortCriteria = "score"
	SortByLocation SortCriteria = "location"
	SortByType     SortCriteria = "type"
)

// IsValid reports whether the sort criteria is supported
func (s SortCriteria) IsValid() bool {
	switch s {
	case SortByScore, SortByLocation, SortByType:
		return true
	}
	return false
}

// ReportWriter abstracts writing formatted reports to a destination.
//
// Implementations live in the service layer.
type ReportWriter interface {
	// Write writes formatted content using the provided writeFunc.
	// If outputPath is non-empty, implementations should create/truncate the
	// file at that path and pass the file as the writer to writeFunc;
	// otherwise they pass the provided writer.
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// ProgressManager manages progress tracking for pair evaluation
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Update updates the progress
	Update(processed, total int)

	// Complete marks the progress as completed
	Complete(success bool)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// AnalysisBundle carries the collaborator outputs for one analysis run:
// extracted code units with structural features, semantic pairs from the
// embedding stage (these double as the coarse candidate pre-filter),
// per-file dynamic test results, and the upstream bug list.
type AnalysisBundle struct {
	Units         []*CodeUnit      `json:"units" yaml:"units"`
	SemanticPairs []*SemanticPair  `json:"semantic_pairs" yaml:"semantic_pairs"`
	Dynamic       []*DynamicResult `json:"dynamic" yaml:"dynamic"`
	Bugs          []*Bug           `json:"bugs" yaml:"bugs"`
}

// SemanticPair is one pair flagged similar by the semantic collaborator
type SemanticPair struct {
	A     *CodeUnit `json:"a" yaml:"a"`
	B     *CodeUnit `json:"b" yaml:"b"`
	Score float64   `json:"score" yaml:"score"`
}

// DynamicResult is the randomized-execution summary for one file
type DynamicResult struct {
	Path      string           `json:"path" yaml:"path"`
	Runs      int              `json:"runs" yaml:"runs"`
	Anomalies []map[string]any `json:"anomalies" yaml:"anomalies"`
}

// HasAnomalies reports whether any trial produced a non-zero exit or exception
func (d *DynamicResult) HasAnomalies() bool {
	return len(d.Anomalies) > 0
}

// CandidatePairs turns the bundle into the candidate pair list for fusion
// scoring. Semantic pairs from the embedding stage act as the coarse
// pre-filter; when none are present, every unit pairing is evaluated with
// zero semantic similarity. The per-pair dynamic anomaly flag is true if
// randomized execution of either side's file misbehaved.
func (b *AnalysisBundle) CandidatePairs() []*CandidatePair {
	if b == nil {
		return nil
	}

	anomalous := make(map[string]bool)
	for _, d := range b.Dynamic {
		if d.HasAnomalies() {
			anomalous[d.Path] = true
		}
	}

	units := make(map[UnitKey]*CodeUnit, len(b.Units))
	for _, u := range b.Units {
		units[u.Key()] = u
	}

	// resolve prefers the full unit record from the units section; pairs
	// sometimes carry only the identity of each side
	resolve := func(u *CodeUnit) *CodeUnit {
		if u == nil {
			return nil
		}
		if full, ok := units[u.Key()]; ok && u.Code == "" && len(u.Features) == 0 {
			return full
		}
		return u
	}

	var pairs []*CandidatePair

	if len(b.SemanticPairs) > 0 {
		for _, sp := range b.SemanticPairs {
			left, right := resolve(sp.A), resolve(sp.B)
			if left == nil || right == nil {
				continue
			}
			pairs = append(pairs, &CandidatePair{
				A:              left,
				B:              right,
				SemanticSim:    sp.Score,
				DynamicAnomaly: anomalous[left.File] || anomalous[right.File],
			})
		}
		return pairs
	}

	// No upstream pre-filter: evaluate every pairing once
	for i := 0; i < len(b.Units); i++ {
		for j := i + 1; j < len(b.Units); j++ {
			left, right := b.Units[i], b.Units[j]
			pairs = append(pairs, &CandidatePair{
				A:              left,
				B:              right,
				DynamicAnomaly: anomalous[left.File] || anomalous[right.File],
			})
		}
	}
	return pairs
}

// BundleLoader defines the interface for loading analysis bundles
type BundleLoader interface {
	// LoadBundles loads and merges every bundle matching the given glob
	// patterns, minus those matching the exclude patterns
	LoadBundles(patterns []string, excludePatterns []string) (*AnalysisBundle, error)
}
