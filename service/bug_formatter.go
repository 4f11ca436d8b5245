package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/clonefuse/clonefuse/domain"
)

// severityMarkers decorate text output per severity level
var severityMarkers = map[string]string{
	"critical": "[!!!]",
	"high":     "[!!]",
	"medium":   "[!]",
	"low":      "[.]",
	"info":     "[i]",
}

// BugOutputFormatter implements the domain.BugOutputFormatter interface
type BugOutputFormatter struct{}

// NewBugOutputFormatter creates a new bug output formatter
func NewBugOutputFormatter() *BugOutputFormatter {
	return &BugOutputFormatter{}
}

// FormatPropagationResponse formats a propagation response according to the specified format
func (f *BugOutputFormatter) FormatPropagationResponse(response *domain.PropagationResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatAsText renders the propagation summary and bug list as text
func (f *BugOutputFormatter) formatAsText(response *domain.PropagationResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "Bug Propagation Results\n")
	fmt.Fprintf(writer, "=======================\n\n")

	fmt.Fprintf(writer, "Propagated bugs: %d\n", len(response.PropagatedBugs))

	if response.Statistics != nil {
		stats := response.Statistics
		fmt.Fprintf(writer, "Total bugs: %d\n", stats.TotalBugs)
		fmt.Fprintf(writer, "Files with bugs: %d\n\n", stats.FilesWithBugs)

		if len(stats.BySeverity) > 0 {
			fmt.Fprintf(writer, "By Severity:\n")
			for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow, domain.SeverityInfo} {
				if count := stats.BySeverity[sev.String()]; count > 0 {
					fmt.Fprintf(writer, "  %s %s: %d\n", severityMarkers[sev.String()], sev.String(), count)
				}
			}
			fmt.Fprintf(writer, "\n")
		}

		if len(stats.ByDetector) > 0 {
			fmt.Fprintf(writer, "By Detector:\n")
			for _, detector := range sortedKeys(stats.ByDetector) {
				fmt.Fprintf(writer, "  - %s: %d\n", detector, stats.ByDetector[detector])
			}
			fmt.Fprintf(writer, "\n")
		}
	}

	bugs := response.MergedBugs
	if bugs == nil {
		bugs = response.PropagatedBugs
	}
	if len(bugs) == 0 {
		fmt.Fprintf(writer, "No bugs to report.\n")
		return nil
	}

	fmt.Fprintf(writer, "Bugs:\n")
	fmt.Fprintf(writer, "=====\n\n")
	for _, b := range bugs {
		fmt.Fprintf(writer, "%s %s:%d (%s)\n", severityMarkers[b.Severity.String()], b.File, b.Line, b.Function)
		fmt.Fprintf(writer, "    %s\n", b.Message)
		if b.Evidence != "" {
			fmt.Fprintf(writer, "    Evidence: %s\n", b.Evidence)
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

// formatAsCSV renders the bug list as CSV
func (f *BugOutputFormatter) formatAsCSV(response *domain.PropagationResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	header := []string{"file", "function", "line", "severity", "category", "message", "evidence", "detector"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	bugs := response.MergedBugs
	if bugs == nil {
		bugs = response.PropagatedBugs
	}
	for _, b := range bugs {
		row := []string{
			b.File, b.Function, strconv.Itoa(b.Line),
			b.Severity.String(), b.Category, b.Message, b.Evidence, b.Detector,
		}
		if err := w.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}

	return nil
}

// sortedKeys returns the map keys in ascending order for stable output
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
