package workflow

import (
	"sort"

	"github.com/scan-io-git/findingflow/internal/issue"
)

// PriorLife is the status and resolution a finding held right before it was
// last closed. An empty Resolution means the finding had none.
type PriorLife struct {
	Status     string
	Resolution string
}

// ScanPriorLife replays the history of a finding and recovers what it looked
// like before its most recent closing. It returns false when the history
// holds no change into CLOSED.
//
// Changes are ordered by creation date. Changes sharing a date keep their
// recording order, the later one being considered the more recent.
//
// The resolution is taken from the closing change itself when it recorded
// one (its previous value). Otherwise it is the value set by the most recent
// resolution change recorded before the closing change, if any.
func ScanPriorLife(history []issue.Change) (PriorLife, bool) {
	changes := sortedChanges(history)

	closing := -1
	for i := len(changes) - 1; i >= 0; i-- {
		if d, ok := changes[i].Get(issue.FieldStatus); ok && d.New == issue.StatusClosed {
			closing = i
			break
		}
	}
	if closing < 0 {
		return PriorLife{}, false
	}

	status := changes[closing].Diffs[issue.FieldStatus].Old
	if status == "" {
		return PriorLife{}, false
	}

	return PriorLife{Status: status, Resolution: resolutionBefore(changes, closing)}, true
}

func resolutionBefore(changes []issue.Change, closing int) string {
	if d, ok := changes[closing].Get(issue.FieldResolution); ok {
		return d.Old
	}
	for i := closing - 1; i >= 0; i-- {
		if d, ok := changes[i].Get(issue.FieldResolution); ok {
			return d.New
		}
	}
	return ""
}

func sortedChanges(history []issue.Change) []issue.Change {
	changes := append([]issue.Change(nil), history...)
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].CreationDate.Before(changes[j].CreationDate)
	})
	return changes
}
