package haptic

import "haptic-go/internal/model"

// Preset is a built-in pattern definition.
type Preset struct {
	Name        string
	Category    model.Category
	Description string
	Sequence    []model.Step
	Repeat      int
}

// PresetID returns the stable identifier of the preset with the given name.
func PresetID(name string) string {
	return "preset_" + name
}

func step(k model.Kind, duration int, intensity float64, pause int) model.Step {
	return model.Step{Kind: k, DurationMS: duration, Intensity: intensity, PauseAfterMS: pause}
}

func pulse(d int, i float64, p int) model.Step { return step(model.KindPulse, d, i, p) }

func buzz(d int, i float64, p int) model.Step { return step(model.KindBuzz, d, i, p) }

func tap(d int, i float64, p int) model.Step { return step(model.KindTap, d, i, p) }

func rumble(d int, i float64, p int) model.Step { return step(model.KindRumble, d, i, p) }

// presets is the fixed built-in table, in seeding order. Never mutated; Presets hands out copies.
var presets = [...]Preset{
	{
		Name: "notification", Category: model.CategoryNotification,
		Description: "Subtle notification pulse",
		Sequence:    []model.Step{pulse(50, 0.6, 50), pulse(50, 0.6, 0)},
		Repeat:      1,
	},
	{
		Name: "success", Category: model.CategoryNotification,
		Description: "Success confirmation pattern",
		Sequence:    []model.Step{pulse(100, 0.8, 50), pulse(100, 0.8, 0)},
		Repeat:      1,
	},
	{
		Name: "error", Category: model.CategoryNotification,
		Description: "Error alert pattern",
		Sequence:    []model.Step{buzz(200, 1.0, 100), buzz(200, 1.0, 0)},
		Repeat:      1,
	},
	{
		Name: "warning", Category: model.CategoryNotification,
		Description: "Warning pattern",
		Sequence:    []model.Step{tap(75, 0.7, 75), tap(75, 0.7, 75), tap(75, 0.7, 0)},
		Repeat:      1,
	},
	{
		Name: "heartbeat", Category: model.CategoryMedia,
		Description: "Heartbeat simulation",
		Sequence:    []model.Step{pulse(100, 0.8, 100), pulse(100, 0.8, 300)},
		Repeat:      2,
	},
	{
		Name: "engine_rev", Category: model.CategoryGame,
		Description: "Engine revving effect",
		Sequence:    []model.Step{rumble(200, 0.5, 50), rumble(200, 0.7, 50), rumble(200, 0.9, 0)},
		Repeat:      1,
	},
	{
		Name: "rain", Category: model.CategoryMedia,
		Description: "Rain drops effect",
		Sequence:    []model.Step{tap(30, 0.4, 100), tap(30, 0.4, 80), tap(30, 0.4, 120)},
		Repeat:      3,
	},
	{
		Name: "typing", Category: model.CategoryAccessibility,
		Description: "Key press feedback",
		Sequence:    []model.Step{tap(25, 0.5, 0)},
		Repeat:      1,
	},
	{
		Name: "explosion", Category: model.CategoryGame,
		Description: "Explosion impact",
		Sequence:    []model.Step{rumble(300, 1.0, 100), pulse(200, 0.6, 0)},
		Repeat:      1,
	},
	{
		Name: "gentle_tap", Category: model.CategoryNotification,
		Description: "Gentle single tap",
		Sequence:    []model.Step{tap(50, 0.3, 0)},
		Repeat:      1,
	},
}

// Presets returns a copy of the built-in preset table in seeding order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Sequence = append([]model.Step(nil), p.Sequence...)
		out[i] = p
	}
	return out
}

// Pattern builds the stored form of the preset.
func (p Preset) Pattern() *model.Pattern {
	return &model.Pattern{
		ID:          PresetID(p.Name),
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Sequence:    append([]model.Step(nil), p.Sequence...),
		DurationMS:  TotalDuration(p.Sequence, p.Repeat),
		Intensity:   DefaultIntensity,
		Repeat:      p.Repeat,
		IsPreset:    true,
	}
}
