// Package audio reads just enough of an audio source to accept it for haptic generation.
package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when a file does not carry a usable WAV header.
var ErrInvalidWAV = errors.New("invalid WAV file format")

// Info describes a WAV source.
type Info struct {
	SampleRate  int
	NumChannels int
	BitDepth    int
}

// ProbeWAV reads the WAV header at path. Sample data is not decoded.
func ProbeWAV(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	return Info{
		SampleRate:  int(decoder.SampleRate),
		NumChannels: int(decoder.NumChans),
		BitDepth:    int(decoder.BitDepth),
	}, nil
}
