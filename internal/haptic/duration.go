package haptic

import "haptic-go/internal/model"

// TotalDuration returns the elapsed time of sequence played repeat times.
// It is the only place pattern durations are computed. An empty sequence or
// a non-positive repeat yields zero.
func TotalDuration(sequence []model.Step, repeat int) int64 {
	if repeat <= 0 {
		return 0
	}
	var pass int64
	for _, step := range sequence {
		pass += int64(step.DurationMS) + int64(step.PauseAfterMS)
	}
	return pass * int64(repeat)
}
