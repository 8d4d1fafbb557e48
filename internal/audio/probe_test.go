package audio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haptic-go/internal/audio"
	"haptic-go/internal/testutil"
)

func TestProbeWAV(t *testing.T) {
	t.Run("reads header of valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chime.wav")
		testutil.WriteTestWAV(t, path)

		info, err := audio.ProbeWAV(path)
		require.NoError(t, err)
		assert.Equal(t, testutil.WAVSampleRate, info.SampleRate)
		assert.Equal(t, 1, info.NumChannels)
		assert.Equal(t, 16, info.BitDepth)
	})

	t.Run("rejects non-wav content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fake.wav")
		require.NoError(t, os.WriteFile(path, []byte("not a riff file"), 0644))

		_, err := audio.ProbeWAV(path)
		require.ErrorIs(t, err, audio.ErrInvalidWAV)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := audio.ProbeWAV(filepath.Join(t.TempDir(), "missing.wav"))
		require.Error(t, err)
	})
}
