package haptic

import "haptic-go/internal/model"

// Expand places each step of sequence on an absolute timeline starting at zero.
// Each event starts after the previous step's duration and trailing pause.
// A single pass is produced; the pattern's repeat count is not applied here.
func Expand(sequence []model.Step) []model.PlaybackEvent {
	events := make([]model.PlaybackEvent, 0, len(sequence))
	var cursor int64
	for _, step := range sequence {
		events = append(events, model.PlaybackEvent{
			TimeMS:     cursor,
			Kind:       step.Kind,
			DurationMS: step.DurationMS,
			Intensity:  step.Intensity,
		})
		cursor += int64(step.DurationMS) + int64(step.PauseAfterMS)
	}
	return events
}
