package service

import (
	"fmt"
	"io"
	"os"

	"github.com/clonefuse/clonefuse/domain"
)

// ReportWriterImpl implements the domain.ReportWriter interface
type ReportWriterImpl struct {
	statusWriter io.Writer
}

// NewReportWriter creates a new report writer. Status messages (written
// file paths) go to statusWriter; nil selects stderr.
func NewReportWriter(statusWriter io.Writer) *ReportWriterImpl {
	if statusWriter == nil {
		statusWriter = os.Stderr
	}
	return &ReportWriterImpl{statusWriter: statusWriter}
}

// Write writes formatted content either to the given writer or, when an
// output path is set, to that file
func (w *ReportWriterImpl) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		return writeFunc(writer)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	defer func() { _ = file.Close() }()

	if err := writeFunc(file); err != nil {
		return err
	}

	fmt.Fprintf(w.statusWriter, "Report written to %s\n", outputPath)
	return nil
}
