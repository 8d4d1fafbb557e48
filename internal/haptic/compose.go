package haptic

import (
	"fmt"
	"strings"

	"haptic-go/internal/model"
)

const (
	composedName        = "Composed"
	composedDescription = "Composed pattern"
)

// concatenate joins the sequences of parts in order and sums their cached durations.
// The total is the sum of each part's DurationMS (which already includes that part's
// repeat), not TotalDuration over the joined sequence.
func concatenate(parts []*model.Pattern) ([]model.Step, int64) {
	n := 0
	for _, p := range parts {
		n += len(p.Sequence)
	}

	sequence := make([]model.Step, 0, n)
	var total int64
	for _, p := range parts {
		sequence = append(sequence, p.Sequence...)
		total += p.DurationMS
	}
	return sequence, total
}

// composedNote describes which patterns went into a composition.
func composedNote(parts []*model.Pattern) string {
	if len(parts) == 0 {
		return composedDescription
	}
	ids := make([]string, len(parts))
	for i, p := range parts {
		ids[i] = p.ID
	}
	return fmt.Sprintf("%s of %s", composedDescription, strings.Join(ids, ", "))
}
