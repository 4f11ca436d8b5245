package analyzer

import (
	"fmt"

	"github.com/clonefuse/clonefuse/domain"
	"github.com/clonefuse/clonefuse/internal/constants"
)

// BugRegistry indexes a bug list by code-unit identity. The index is built
// fresh for every propagation call; no mutable index survives across calls.
type BugRegistry struct {
	index map[domain.UnitKey][]*domain.Bug
}

// NewBugRegistry builds a registry from the given bug list
func NewBugRegistry(bugs []*domain.Bug) *BugRegistry {
	index := make(map[domain.UnitKey][]*domain.Bug, len(bugs))
	for _, b := range bugs {
		key := b.Key()
		index[key] = append(index[key], b)
	}
	return &BugRegistry{index: index}
}

// BugsFor returns the bugs attached to a code unit
func (r *BugRegistry) BugsFor(key domain.UnitKey) []*domain.Bug {
	return r.index[key]
}

// HasMessage reports whether a bug with the given message is already
// attached to the code unit
func (r *BugRegistry) HasMessage(key domain.UnitKey, message string) bool {
	for _, b := range r.index[key] {
		if b.Message == message {
			return true
		}
	}
	return false
}

// PropagationEngine spreads known bugs across clone edges. A fusion report
// scoring at or above the threshold defines a bidirectional edge: a bug on
// either side is mirrored onto the other as a new, unverified finding.
type PropagationEngine struct {
	scoreThreshold float64
}

// NewPropagationEngine creates a propagation engine with the given score
// threshold. Thresholds outside (0, 1] select the default.
func NewPropagationEngine(scoreThreshold float64) *PropagationEngine {
	if scoreThreshold <= 0.0 || scoreThreshold > 1.0 {
		scoreThreshold = constants.DefaultPropagationThreshold
	}
	return &PropagationEngine{scoreThreshold: scoreThreshold}
}

// Propagate returns the bugs synthesized by spreading the given bug list
// across qualifying clone reports. Only newly created bugs are returned;
// merging them into the master list is the caller's decision.
//
// The function is pure and idempotent: calling it twice over the same
// inputs yields the identical set of synthesized bugs. Duplicates are
// guarded two ways: against bugs already attached to the target at call
// time, and against bugs synthesized earlier in the same call when several
// qualifying edges would carry the same finding to the same target.
func (e *PropagationEngine) Propagate(bugs []*domain.Bug, reports []*domain.FusionReport) []*domain.Bug {
	registry := NewBugRegistry(bugs)

	type emission struct {
		target  domain.UnitKey
		message string
	}
	emitted := make(map[emission]struct{})

	var propagated []*domain.Bug

	mirror := func(src, dst domain.UnitKey, score float64) {
		for _, sourceBug := range registry.BugsFor(src) {
			newBug := synthesizeBug(sourceBug, src, dst, score)

			// Skip if the target already carries this finding, either as
			// the original message or as an earlier propagation of it
			if registry.HasMessage(dst, sourceBug.Message) || registry.HasMessage(dst, newBug.Message) {
				continue
			}
			key := emission{target: dst, message: sourceBug.Message}
			if _, seen := emitted[key]; seen {
				continue
			}
			emitted[key] = struct{}{}

			propagated = append(propagated, newBug)
		}
	}

	for _, report := range reports {
		if report == nil || report.FusionScore < e.scoreThreshold {
			continue
		}

		// Either side may be the original carrier of the defect
		mirror(report.KeyA(), report.KeyB(), report.FusionScore)
		mirror(report.KeyB(), report.KeyA(), report.FusionScore)
	}

	return propagated
}

// synthesizeBug creates the propagated counterpart of a source bug on the
// target side. Propagated findings are unverified: they always carry the
// fixed medium severity, never the source's label, and line 0 because the
// exact line on the target side is unknown.
func synthesizeBug(sourceBug *domain.Bug, src, dst domain.UnitKey, score float64) *domain.Bug {
	return &domain.Bug{
		File:     dst.File,
		Function: dst.Function,
		Line:     0,
		Severity: domain.SeverityMedium,
		Category: constants.PropagatedBugCategory,
		Detector: constants.PropagationDetectorName,
		Message:  fmt.Sprintf("Potential bug propagated from clone %s (Source: %s)", src.File, sourceBug.Message),
		Evidence: fmt.Sprintf("Clone similarity: %.2f with %s:%s", score, src.File, src.Function),
	}
}
