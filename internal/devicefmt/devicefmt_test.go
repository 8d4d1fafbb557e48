package devicefmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"haptic-go/internal/model"
)

func samplePattern() *model.Pattern {
	return &model.Pattern{
		ID:         "preset_success",
		Name:       "success",
		Category:   model.CategoryNotification,
		DurationMS: 250,
		Sequence: []model.Step{
			{Kind: model.KindPulse, DurationMS: 100, Intensity: 0.8, PauseAfterMS: 50},
			{Kind: model.KindPulse, DurationMS: 100, Intensity: 0.8},
		},
		Repeat: 1,
	}
}

func TestFromPattern(t *testing.T) {
	doc := FromPattern(samplePattern())

	assert.Equal(t, "1.0", doc.Version)
	require.NotNil(t, doc.Pattern)
	assert.Equal(t, "preset_success", doc.Pattern.ID)
	assert.Equal(t, "notification", doc.Pattern.Type)
	assert.Equal(t, int64(250), doc.Pattern.TotalDuration)
	require.Len(t, doc.Pattern.Haptics, 2)
	assert.Equal(t, Haptic{Type: "pulse", DurationMS: 100, Intensity: 0.8, PauseAfterMS: 50}, doc.Pattern.Haptics[0])
}

func TestDocument_JSONShape(t *testing.T) {
	data, err := json.Marshal(FromPattern(samplePattern()))
	require.NoError(t, err)

	want := `{
		"version": "1.0",
		"pattern": {
			"id": "preset_success",
			"name": "success",
			"type": "notification",
			"totalDuration": 250,
			"haptics": [
				{"type": "pulse", "duration_ms": 100, "intensity": 0.8, "pause_after_ms": 50},
				{"type": "pulse", "duration_ms": 100, "intensity": 0.8, "pause_after_ms": 0}
			]
		}
	}`
	assert.JSONEq(t, want, string(data))
}

func TestDocument_Empty(t *testing.T) {
	empty := &Document{}
	assert.True(t, empty.Empty())

	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	assert.False(t, FromPattern(samplePattern()).Empty())
}

func TestValidate(t *testing.T) {
	t.Run("accepts exported pattern", func(t *testing.T) {
		require.NoError(t, Validate(FromPattern(samplePattern())))
	})

	t.Run("accepts empty sequence", func(t *testing.T) {
		p := samplePattern()
		p.Sequence = nil
		p.DurationMS = 0
		require.NoError(t, Validate(FromPattern(p)))
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		doc := FromPattern(samplePattern())
		doc.Pattern.Type = "weather"
		require.Error(t, Validate(doc))
	})

	t.Run("rejects wrong version", func(t *testing.T) {
		doc := FromPattern(samplePattern())
		doc.Version = "2.0"
		require.Error(t, Validate(doc))
	})

	t.Run("rejects empty document", func(t *testing.T) {
		require.Error(t, Validate(&Document{}))
	})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestEncode(t *testing.T) {
	doc := FromPattern(samplePattern())

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, FormatJSON))

		var got Document
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, doc, &got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, FormatYAML))
		assert.Contains(t, buf.String(), "totalDuration: 250")

		var got Document
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, doc, &got)
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		require.Error(t, Encode(&buf, doc, Format("xml")))
	})
}
