package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("vibrate")
	require.ErrorIs(t, err, ErrInvalidStepKind)

	_, err = ParseKind("")
	require.ErrorIs(t, err, ErrInvalidStepKind)
}

func TestKind_Valid(t *testing.T) {
	assert.False(t, KindUnknown.Valid())
	assert.True(t, KindPulse.Valid())
	assert.True(t, KindRumble.Valid())
	assert.False(t, Kind(42).Valid())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestStep_JSON(t *testing.T) {
	t.Run("encodes kind by name", func(t *testing.T) {
		data, err := json.Marshal(Step{Kind: KindTap, DurationMS: 50, Intensity: 0.3, PauseAfterMS: 20})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"tap","duration_ms":50,"intensity":0.3,"pause_after_ms":20}`, string(data))
	})

	t.Run("rejects unknown kind on decode", func(t *testing.T) {
		var s Step
		err := json.Unmarshal([]byte(`{"type":"vibrate","duration_ms":50}`), &s)
		require.ErrorIs(t, err, ErrInvalidStepKind)
	})

	t.Run("refuses to encode the zero kind", func(t *testing.T) {
		_, err := json.Marshal(Step{DurationMS: 10})
		require.Error(t, err)
	})
}

func TestStep_YAML(t *testing.T) {
	var steps []Step
	src := `
- type: buzz
  duration_ms: 200
  intensity: 1.0
  pause_after_ms: 100
- type: rumble
  duration_ms: 300
  intensity: 0.5
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &steps))
	require.Len(t, steps, 2)
	assert.Equal(t, Step{Kind: KindBuzz, DurationMS: 200, Intensity: 1.0, PauseAfterMS: 100}, steps[0])
	assert.Equal(t, Step{Kind: KindRumble, DurationMS: 300, Intensity: 0.5}, steps[1])

	err := yaml.Unmarshal([]byte("- type: wobble\n"), &steps)
	require.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("invalid_category")
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Step
		wantErr bool
	}{
		{name: "full form", in: "pulse:100:0.5:50", want: Step{Kind: KindPulse, DurationMS: 100, Intensity: 0.5, PauseAfterMS: 50}},
		{name: "pause omitted", in: "tap:25:0.5", want: Step{Kind: KindTap, DurationMS: 25, Intensity: 0.5}},
		{name: "unknown kind", in: "wobble:10:0.1:0", wantErr: true},
		{name: "bad duration", in: "pulse:ten:0.1:0", wantErr: true},
		{name: "bad intensity", in: "pulse:10:high:0", wantErr: true},
		{name: "bad pause", in: "pulse:10:0.1:x", wantErr: true},
		{name: "too few fields", in: "pulse:10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStep(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
