package haptic

import (
	"fmt"
	"path/filepath"
	"strings"

	"haptic-go/internal/audio"
	"haptic-go/internal/model"
)

// generatedSequence is what GenerateFromAudio produces for every source.
// Audio content is not analysed.
var generatedSequence = [...]model.Step{
	pulse(100, 0.6, 50),
	pulse(150, 0.8, 50),
	pulse(80, 0.5, 0),
}

// GenerateFromAudio creates a media pattern named after the audio file.
// WAV sources must have a readable header; other paths are accepted as given.
func (c *Catalog) GenerateFromAudio(path string) (string, error) {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".wav") {
		info, err := audio.ProbeWAV(path)
		if err != nil {
			return "", fmt.Errorf("reading audio source: %w", err)
		}
		c.logger.Debug("audio source probed", "path", path, "sample_rate", info.SampleRate, "channels", info.NumChannels)
	}

	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return c.CreatePattern("audio_"+stem, model.CategoryMedia, generatedSequence[:], "Generated from "+path, 1)
}
