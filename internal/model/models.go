package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for values outside the closed vocabularies.
var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidStepKind = errors.New("invalid step kind")
)

// Kind is the closed set of actuator step kinds.
// The zero value is not a valid kind.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPulse
	KindBuzz
	KindTap
	KindRumble
)

var kindNames = [...]string{
	KindUnknown: "",
	KindPulse:   "pulse",
	KindBuzz:    "buzz",
	KindTap:     "tap",
	KindRumble:  "rumble",
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindPulse, KindBuzz, KindTap, KindRumble}
}

// ParseKind converts a wire name such as "pulse" into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrInvalidStepKind, s)
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindPulse && k <= KindRumble
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText encodes the kind by name. Invalid kinds cannot be encoded.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStepKind, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind by name, rejecting anything outside the closed set.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Category groups patterns by use case.
type Category string

const (
	CategoryNotification  Category = "notification"
	CategoryGame          Category = "game"
	CategoryMedia         Category = "media"
	CategoryAccessibility Category = "accessibility"
	CategoryNavigation    Category = "navigation"
)

// Categories returns every valid category.
func Categories() []Category {
	return []Category{
		CategoryNotification,
		CategoryGame,
		CategoryMedia,
		CategoryAccessibility,
		CategoryNavigation,
	}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Step is one atomic haptic event within a pattern.
// Durations are milliseconds. Intensity is conventionally in [0.0, 1.0] but is not enforced.
type Step struct {
	Kind         Kind    `json:"type" yaml:"type"`
	DurationMS   int     `json:"duration_ms" yaml:"duration_ms"`
	Intensity    float64 `json:"intensity" yaml:"intensity"`
	PauseAfterMS int     `json:"pause_after_ms" yaml:"pause_after_ms"`
}

// ParseStep parses the compact "kind:duration:intensity:pause" form used on the command line.
// The pause may be omitted and defaults to zero.
func ParseStep(s string) (Step, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return Step{}, fmt.Errorf("step %q: want kind:duration:intensity[:pause]", s)
	}

	kind, err := ParseKind(parts[0])
	if err != nil {
		return Step{}, err
	}

	duration, err := strconv.Atoi(parts[1])
	if err != nil {
		return Step{}, fmt.Errorf("step %q: parsing duration: %w", s, err)
	}

	intensity, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Step{}, fmt.Errorf("step %q: parsing intensity: %w", s, err)
	}

	var pause int
	if len(parts) == 4 {
		pause, err = strconv.Atoi(parts[3])
		if err != nil {
			return Step{}, fmt.Errorf("step %q: parsing pause: %w", s, err)
		}
	}

	return Step{Kind: kind, DurationMS: duration, Intensity: intensity, PauseAfterMS: pause}, nil
}

// Pattern is a named, categorized, reusable haptic definition.
// DurationMS is derived from Sequence and Repeat and is never edited directly.
type Pattern struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Category    Category   `json:"category" yaml:"category"`
	Description string     `json:"description" yaml:"description"`
	Sequence    []Step     `json:"sequence" yaml:"sequence"`
	DurationMS  int64      `json:"duration_ms" yaml:"duration_ms"`
	Intensity   float64    `json:"intensity" yaml:"intensity"`
	Repeat      int        `json:"repeat" yaml:"repeat"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"` // nil for presets
	IsPreset    bool       `json:"is_preset" yaml:"is_preset"`
}

// PatternSummary is the listing view of a Pattern.
type PatternSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	DurationMS int64    `json:"duration_ms"`
	Intensity  float64  `json:"intensity"`
	IsPreset   bool     `json:"is_preset"`
}

// PlaybackLogEntry is an append-only audit record of one playback.
// DurationMS is copied at playback time so later changes never rewrite history.
type PlaybackLogEntry struct {
	ID         int64     `json:"id"`
	PatternID  string    `json:"pattern_id"`
	Device     string    `json:"device"`
	PlayedAt   time.Time `json:"timestamp"`
	DurationMS int64     `json:"duration_ms"`
}

// PlaybackEvent is one step placed on an absolute timeline.
type PlaybackEvent struct {
	TimeMS     int64   `json:"time_ms"`
	Kind       Kind    `json:"type"`
	DurationMS int     `json:"duration_ms"`
	Intensity  float64 `json:"intensity"`
}
