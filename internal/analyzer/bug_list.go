package analyzer

import (
	"sort"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/constants"
)

// bugDedupKey is the identity used to collapse duplicate bug reports
type bugDedupKey struct {
	file          string
	line          int
	category      string
	messagePrefix string
}

// DeduplicateBugs removes duplicate bug reports, keyed by file, line,
// category, and the leading characters of the message. Order of first
// occurrence is preserved.
func DeduplicateBugs(bugs []*domain.Bug) []*domain.Bug {
	seen := make(map[bugDedupKey]struct{}, len(bugs))
	unique := make([]*domain.Bug, 0, len(bugs))

	for _, b := range bugs {
		prefix := b.Message
		if len(prefix) > constants.BugDedupMessagePrefixLen {
			prefix = prefix[:constants.BugDedupMessagePrefixLen]
		}
		key := bugDedupKey{file: b.File, line: b.Line, category: b.Category, messagePrefix: prefix}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, b)
	}

	return unique
}

// SortBugs sorts a bug list in place by severity rank, then file, then line.
// The sort is stable so equal bugs keep their relative order.
func SortBugs(bugs []*domain.Bug) {
	sort.SliceStable(bugs, func(i, j int) bool {
		if bugs[i].Severity.Rank() != bugs[j].Severity.Rank() {
			return bugs[i].Severity.Rank() < bugs[j].Severity.Rank()
		}
		if bugs[i].File != bugs[j].File {
			return bugs[i].File < bugs[j].File
		}
		return bugs[i].Line < bugs[j].Line
	})
}

// MergeBugs appends propagated bugs to the original list, deduplicates, and
// sorts by severity. The input slices are not modified.
func MergeBugs(original, propagated []*domain.Bug) []*domain.Bug {
	merged := make([]*domain.Bug, 0, len(original)+len(propagated))
	merged = append(merged, original...)
	merged = append(merged, propagated...)
	merged = DeduplicateBugs(merged)
	SortBugs(merged)
	return merged
}

// ComputeBugStatistics tallies a bug list by severity, category, and
// detector, and counts distinct files carrying bugs.
func ComputeBugStatistics(bugs []*domain.Bug) *domain.BugStatistics {
	stats := domain.NewBugStatistics()
	stats.TotalBugs = len(bugs)

	files := make(map[string]struct{})
	for _, b := range bugs {
		stats.BySeverity[b.Severity.String()]++
		stats.ByCategory[b.Category]++
		stats.ByDetector[b.Detector]++
		files[b.File] = struct{}{}
	}
	stats.FilesWithBugs = len(files)

	return stats
}
