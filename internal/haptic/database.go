package haptic

import "haptic-go/internal/model"

// Database is the persistence contract the catalog depends on.
// Lookups return (nil, nil) when the record does not exist.
type Database interface {
	// Pattern operations

	// InsertPresetIfAbsent stores a preset unless a preset with the same name exists.
	// It never overwrites and reports whether a row was inserted. Races between
	// concurrent callers are resolved by a uniqueness constraint, not an error.
	InsertPresetIfAbsent(pattern *model.Pattern) (bool, error)

	// FindPresetByName returns the preset with the given name.
	FindPresetByName(name string) (*model.Pattern, error)

	// ListPresets returns all presets ordered by name.
	ListPresets() ([]*model.Pattern, error)

	// InsertPattern stores a new pattern. Returns ErrDuplicateIdentifier if the id is taken.
	InsertPattern(pattern *model.Pattern) error

	// FindPatternByID returns a pattern by id.
	FindPatternByID(id string) (*model.Pattern, error)

	// ListPatterns returns summaries ordered by name. An empty category lists everything.
	ListPatterns(category model.Category) ([]*model.PatternSummary, error)

	// Playback log operations

	// AppendPlaybackLog records a playback and returns the assigned log id.
	AppendPlaybackLog(entry *model.PlaybackLogEntry) (int64, error)

	// ListPlaybackLog returns the most recent entries, newest first.
	ListPlaybackLog(limit int) ([]*model.PlaybackLogEntry, error)

	// ListPlaybackLogForPattern returns the most recent entries for one pattern, newest first.
	ListPlaybackLogForPattern(patternID string, limit int) ([]*model.PlaybackLogEntry, error)

	// Close closes the database connection.
	Close() error
}
