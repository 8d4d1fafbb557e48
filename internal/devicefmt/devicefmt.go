// Package devicefmt defines the versioned document handed to downstream actuator drivers.
package devicefmt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"haptic-go/internal/model"
)

// Version is the export schema version written into every document.
const Version = "1.0"

const schemaURL = "https://haptic-go.local/schema/device-export-v1.schema.json"

//go:embed schema/device-export-v1.schema.json
var schemaJSON []byte

// Document is the device export. The zero value is the empty document returned
// for unknown patterns and encodes as "{}".
type Document struct {
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	Pattern *Pattern `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Pattern is the exported form of a stored pattern.
type Pattern struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Type          string   `json:"type" yaml:"type"`
	TotalDuration int64    `json:"totalDuration" yaml:"totalDuration"`
	Haptics       []Haptic `json:"haptics" yaml:"haptics"`
}

// Haptic is one exported step.
type Haptic struct {
	Type         string  `json:"type" yaml:"type"`
	DurationMS   int     `json:"duration_ms" yaml:"duration_ms"`
	Intensity    float64 `json:"intensity" yaml:"intensity"`
	PauseAfterMS int     `json:"pause_after_ms" yaml:"pause_after_ms"`
}

// Empty reports whether d carries no pattern.
func (d *Document) Empty() bool {
	return d == nil || d.Pattern == nil
}

// FromPattern maps p into an export document.
func FromPattern(p *model.Pattern) *Document {
	haptics := make([]Haptic, len(p.Sequence))
	for i, s := range p.Sequence {
		haptics[i] = Haptic{
			Type:         s.Kind.String(),
			DurationMS:   s.DurationMS,
			Intensity:    s.Intensity,
			PauseAfterMS: s.PauseAfterMS,
		}
	}
	return &Document{
		Version: Version,
		Pattern: &Pattern{
			ID:            p.ID,
			Name:          p.Name,
			Type:          string(p.Category),
			TotalDuration: p.DurationMS,
			Haptics:       haptics,
		},
	}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Validate checks a non-empty document against the embedded export schema.
func Validate(d *Document) error {
	if d.Empty() {
		return fmt.Errorf("empty export document")
	}

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Format selects the encoding of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml", or "yml". Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format: %q", s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Encode writes d to w in the given format.
func Encode(w io.Writer, d *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}
