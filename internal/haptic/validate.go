package haptic

import (
	"fmt"

	"haptic-go/internal/model"
)

// Validate checks category and step kinds against their closed sets.
// Durations and intensities are advisory and are not range checked.
func Validate(sequence []model.Step, category model.Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	for i, step := range sequence {
		if !step.Kind.Valid() {
			return fmt.Errorf("%w: step %d has kind %s", ErrInvalidStepKind, i, step.Kind)
		}
	}
	return nil
}
