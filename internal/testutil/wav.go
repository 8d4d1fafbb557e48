package testutil

import (
	"math"
	"os"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVSampleRate is the sample rate of files written by WriteTestWAV.
const WAVSampleRate = 8000

// WriteTestWAV writes a short 16-bit mono sine tone to path.
func WriteTestWAV(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav file: %v", err)
	}
	defer f.Close()

	const samples = 800
	data := make([]int, samples)
	for i := range data {
		data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/WAVSampleRate))
	}

	enc := wav.NewEncoder(f, WAVSampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: WAVSampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write wav samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize wav file: %v", err)
	}
}
