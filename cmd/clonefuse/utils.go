package main

import (
	"fmt"

	"github.com/clonefuse/clonefuse/domain"
)

// resolveOutputFormat maps the mutually exclusive format flags to an
// output format; no flag set means text
func resolveOutputFormat(json, yaml, csv bool) (domain.OutputFormat, error) {
	count := 0
	format := domain.OutputFormatText
	if json {
		count++
		format = domain.OutputFormatJSON
	}
	if yaml {
		count++
		format = domain.OutputFormatYAML
	}
	if csv {
		count++
		format = domain.OutputFormatCSV
	}
	if count > 1 {
		return "", fmt.Errorf("only one of --json, --yaml, --csv may be set")
	}
	return format, nil
}
