package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/clonefuse/clonefuse/domain"
)

// FusionOutputFormatter implements the domain.FusionOutputFormatter interface
type FusionOutputFormatter struct {
	// ShowDetails includes the per-report component breakdown in text output
	ShowDetails bool
}

// NewFusionOutputFormatter creates a new fusion output formatter
func NewFusionOutputFormatter(showDetails bool) *FusionOutputFormatter {
	return &FusionOutputFormatter{ShowDetails: showDetails}
}

// FormatFusionResponse formats a fusion response according to the specified format
func (f *FusionOutputFormatter) FormatFusionResponse(response *domain.FusionResponse, format domain.OutputFormat, writer io.Writer) error {
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

// formatAsText formats the response as human-readable text
func (f *FusionOutputFormatter) formatAsText(response *domain.FusionResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "Clone Fusion Results\n")
	fmt.Fprintf(writer, "====================\n\n")

	if response.Statistics != nil {
		stats := response.Statistics
		fmt.Fprintf(writer, "Summary:\n")
		fmt.Fprintf(writer, "  Candidate pairs scored: %d\n", stats.TotalPairs)
		fmt.Fprintf(writer, "  Clone pairs: %d\n", stats.ClonePairs)
		if stats.TotalPairs > 0 {
			fmt.Fprintf(writer, "  Average fusion score: %.3f\n", stats.AverageScore)
			fmt.Fprintf(writer, "  Maximum fusion score: %.3f\n", stats.MaxScore)
			fmt.Fprintf(writer, "  High confidence pairs: %d (%.1f%%)\n",
				stats.HighConfidence, 100*float64(stats.HighConfidence)/float64(stats.TotalPairs))
		}
		fmt.Fprintf(writer, "  Analysis duration: %dms\n\n", response.Duration)

		if len(stats.PairsByType) > 0 {
			fmt.Fprintf(writer, "Pairs by Clone Type:\n")
			for _, ct := range []domain.CloneType{domain.Type1Clone, domain.Type2Clone, domain.Type3Clone, domain.Type4Clone, domain.NonClone, domain.UnknownClone} {
				if count, ok := stats.PairsByType[ct.String()]; ok {
					fmt.Fprintf(writer, "  %s: %d\n", ct.String(), count)
				}
			}
			fmt.Fprintf(writer, "\n")
		}
	}

	if len(response.Reports) == 0 {
		fmt.Fprintf(writer, "No candidate pairs scored.\n")
		return nil
	}

	fmt.Fprintf(writer, "Ranked Pairs:\n")
	fmt.Fprintf(writer, "=============\n\n")

	for i, report := range response.Reports {
		fmt.Fprintf(writer, "%d. %s:%s <-> %s:%s\n",
			i+1, report.FileA, report.FuncA, report.FileB, report.FuncB)
		fmt.Fprintf(writer, "   Fusion score: %.3f  (%s, confidence %.2f)\n",
			report.FusionScore, report.CloneType.String(), report.Confidence)
		fmt.Fprintf(writer, "   %s\n", report.Explanation)

		if f.ShowDetails && report.Components != nil {
			c := report.Components
			fmt.Fprintf(writer, "   Components: struct=%.3f sem=%.3f line=%.3f token=%.3f dynamic=%t\n",
				c.Structural, c.Semantic, c.LineSimilarity, c.TokenSimilarity, c.Dynamic)
			fmt.Fprintf(writer, "   Weighted:   struct=%.3f sem=%.3f dyn=%.3f\n",
				c.WeightedStructural, c.WeightedSemantic, c.WeightedDynamic)
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

// formatAsCSV formats the response as CSV, one row per report
func (f *FusionOutputFormatter) formatAsCSV(response *domain.FusionResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	header := []string{
		"file_a", "func_a", "file_b", "func_b",
		"fusion_score", "clone_type", "confidence",
		"struct_sim", "semantic_sim", "line_sim", "token_sim",
		"dynamic_anomaly", "explanation",
	}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, r := range response.Reports {
		row := []string{
			r.FileA, r.FuncA, r.FileB, r.FuncB,
			strconv.FormatFloat(r.FusionScore, 'f', 4, 64),
			r.CloneType.String(),
			strconv.FormatFloat(r.Confidence, 'f', 4, 64),
			strconv.FormatFloat(r.StructSim, 'f', 4, 64),
			strconv.FormatFloat(r.SemanticSim, 'f', 4, 64),
			strconv.FormatFloat(r.LineSim, 'f', 4, 64),
			strconv.FormatFloat(r.TokenSim, 'f', 4, 64),
			strconv.FormatBool(r.DynamicAnomaly),
			r.Explanation,
		}
		if err := w.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}

	return nil
}
