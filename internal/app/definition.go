package app

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"haptic-go/internal/model"
)

// PatternDefinition is the on-disk form accepted by "hapt create --file".
// JSON documents are accepted too, since they are valid YAML.
//
//	name: door_bell
//	category: notification
//	description: Front door
//	repeat: 2
//	sequence:
//	  - {type: pulse, duration_ms: 100, intensity: 0.8, pause_after_ms: 50}
//	  - {type: tap, duration_ms: 30, intensity: 0.4}
type PatternDefinition struct {
	Name        string         `yaml:"name"`
	Category    model.Category `yaml:"category"`
	Description string         `yaml:"description"`
	Repeat      int            `yaml:"repeat"`
	Sequence    []model.Step   `yaml:"sequence"`
}

// ReadDefinition decodes a pattern definition. Unknown fields are rejected and
// an omitted repeat defaults to 1.
func ReadDefinition(r io.Reader) (*PatternDefinition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def PatternDefinition
	if err := dec.Decode(&def); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty pattern definition")
		}
		return nil, fmt.Errorf("decoding pattern definition: %w", err)
	}
	if def.Repeat == 0 {
		def.Repeat = 1
	}
	return &def, nil
}

// ReadDefinitionFile reads a pattern definition from path.
func ReadDefinitionFile(path string) (*PatternDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition file: %w", err)
	}
	defer f.Close()

	def, err := ReadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("reading definition from %s: %w", path, err)
	}
	return def, nil
}
