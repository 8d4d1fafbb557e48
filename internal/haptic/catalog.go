package haptic

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"haptic-go/internal/devicefmt"
	"haptic-go/internal/model"
)

// DefaultIntensity is the pattern-level intensity given to every stored pattern.
// It is not derived from the step intensities.
const DefaultIntensity = 0.5

// DefaultDevice is the playback target used when none is given.
const DefaultDevice = "default"

// Catalog owns pattern identity, preset bootstrap, and playback logging.
// Patterns are immutable once stored, so loaded patterns are cached without expiry.
type Catalog struct {
	database Database
	patterns *cache.Cache
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewCatalog creates a Catalog backed by database.
// A nil logger, clock, or idgen falls back to NopLogger, RealClock, or UUIDGenerator.
func NewCatalog(database Database, logger Logger, clock Clock, idgen IDGenerator) *Catalog {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if idgen == nil {
		idgen = UUIDGenerator{}
	}
	return &Catalog{
		database: database,
		patterns: cache.New(cache.NoExpiration, 0),
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// PlaybackResult is the outcome of Play. When NotFound is set the pattern did not
// resolve, nothing was logged, and only PatternID and Device are populated.
type PlaybackResult struct {
	PatternID       string                `json:"pattern_id"`
	Device          string                `json:"device"`
	TotalDurationMS int64                 `json:"total_duration_ms"`
	Timeline        []model.PlaybackEvent `json:"timeline"`
	LogID           int64                 `json:"log_id,omitempty"`
	NotFound        bool                  `json:"not_found,omitempty"`
}

// CreatePattern validates and stores a new pattern and returns its identifier.
// Nothing is written when validation fails.
func (c *Catalog) CreatePattern(name string, category model.Category, sequence []model.Step, description string, repeat int) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidName
	}
	if repeat < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidRepeat, repeat)
	}
	if err := Validate(sequence, category); err != nil {
		return "", err
	}

	now := c.clock.Now()
	p := &model.Pattern{
		ID:          c.newPatternID(name, now),
		Name:        name,
		Category:    category,
		Description: description,
		Sequence:    append([]model.Step{}, sequence...),
		DurationMS:  TotalDuration(sequence, repeat),
		Intensity:   DefaultIntensity,
		Repeat:      repeat,
		CreatedAt:   &now,
	}

	if err := c.database.InsertPattern(p); err != nil {
		return "", fmt.Errorf("storing pattern %s: %w", p.ID, err)
	}
	c.remember(p)

	c.logger.Info("pattern created", "id", p.ID, "category", string(category), "duration_ms", p.DurationMS)
	return p.ID, nil
}

// GetPattern returns the pattern with the given id, or nil if it does not exist.
func (c *Catalog) GetPattern(id string) (*model.Pattern, error) {
	if v, ok := c.patterns.Get(id); ok {
		c.logger.Debug("pattern cache hit", "id", id)
		return clonePattern(v.(*model.Pattern)), nil
	}

	p, err := c.database.FindPatternByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding pattern: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	c.remember(p)
	return clonePattern(p), nil
}

// ListPatterns returns pattern summaries sorted by name.
// An empty category lists every pattern.
func (c *Catalog) ListPatterns(category model.Category) ([]*model.PatternSummary, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	summaries, err := c.database.ListPatterns(category)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	return summaries, nil
}

// Play expands the pattern into a timeline and records the playback.
// An unknown id is reported through PlaybackResult.NotFound, not as an error.
func (c *Catalog) Play(id string, device string) (*PlaybackResult, error) {
	if device == "" {
		device = DefaultDevice
	}

	p, err := c.GetPattern(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		c.logger.Warn("playback requested for unknown pattern", "id", id, "device", device)
		return &PlaybackResult{PatternID: id, Device: device, NotFound: true}, nil
	}

	logID, err := c.database.AppendPlaybackLog(&model.PlaybackLogEntry{
		PatternID:  p.ID,
		Device:     device,
		PlayedAt:   c.clock.Now(),
		DurationMS: p.DurationMS,
	})
	if err != nil {
		return nil, fmt.Errorf("recording playback: %w", err)
	}

	c.logger.Info("pattern played", "id", p.ID, "device", device, "duration_ms", p.DurationMS)
	return &PlaybackResult{
		PatternID:       p.ID,
		Device:          device,
		TotalDurationMS: p.DurationMS,
		Timeline:        Expand(p.Sequence),
		LogID:           logID,
	}, nil
}

// Compose concatenates the sequences of the given patterns, in order, into a new
// stored pattern. Unknown ids are skipped. The new pattern is always a
// notification with repeat 1, and its duration is the sum of the parts' durations.
func (c *Catalog) Compose(ids []string) (*model.Pattern, error) {
	parts := make([]*model.Pattern, 0, len(ids))
	for _, id := range ids {
		p, err := c.GetPattern(id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			c.logger.Warn("skipping unknown pattern in composition", "id", id)
			continue
		}
		parts = append(parts, p)
	}

	sequence, total := concatenate(parts)
	now := c.clock.Now()
	p := &model.Pattern{
		ID:          fmt.Sprintf("composed_%d_%s", now.UnixMilli(), c.suffix()),
		Name:        composedName,
		Category:    model.CategoryNotification,
		Description: composedNote(parts),
		Sequence:    sequence,
		DurationMS:  total,
		Intensity:   DefaultIntensity,
		Repeat:      1,
		CreatedAt:   &now,
	}

	if err := c.database.InsertPattern(p); err != nil {
		return nil, fmt.Errorf("storing composed pattern %s: %w", p.ID, err)
	}
	c.remember(p)

	c.logger.Info("pattern composed", "id", p.ID, "parts", len(parts), "requested", len(ids), "duration_ms", total)
	return clonePattern(p), nil
}

// ExportDeviceFormat maps a pattern into the device export document.
// An unknown id yields an empty document rather than an error.
func (c *Catalog) ExportDeviceFormat(id string) (*devicefmt.Document, error) {
	p, err := c.GetPattern(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &devicefmt.Document{}, nil
	}

	doc := devicefmt.FromPattern(p)
	if err := devicefmt.Validate(doc); err != nil {
		return nil, fmt.Errorf("export of %s: %w", id, err)
	}
	return doc, nil
}

// Publish encodes the export document for id and stores it in sink as
// "<id>.<ext>", with path separators in id replaced by underscores. It returns
// the stored name, or ErrNotFound for an unknown id.
func (c *Catalog) Publish(sink Sink, id string, format devicefmt.Format) (string, error) {
	doc, err := c.ExportDeviceFormat(id)
	if err != nil {
		return "", err
	}
	if doc.Empty() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var buf bytes.Buffer
	if err := devicefmt.Encode(&buf, doc, format); err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}

	name := documentName(id) + "." + format.Extension()
	if err := sink.Put(name, &buf, int64(buf.Len())); err != nil {
		return "", fmt.Errorf("publishing %s: %w", name, err)
	}

	c.logger.Info("export published", "id", id, "name", name)
	return name, nil
}

// SeedPresets stores every built-in preset that is not already present and
// returns how many were inserted. Running it again inserts nothing.
func (c *Catalog) SeedPresets() (int, error) {
	inserted := 0
	for _, preset := range Presets() {
		existing, err := c.database.FindPresetByName(preset.Name)
		if err != nil {
			return inserted, fmt.Errorf("checking preset %s: %w", preset.Name, err)
		}
		if existing != nil {
			c.logger.Debug("preset already present", "name", preset.Name)
			continue
		}

		ok, err := c.database.InsertPresetIfAbsent(preset.Pattern())
		if err != nil {
			return inserted, fmt.Errorf("seeding preset %s: %w", preset.Name, err)
		}
		if !ok {
			// Another instance won the race.
			c.logger.Debug("preset seeded concurrently", "name", preset.Name)
			continue
		}
		inserted++
		c.logger.Info("preset seeded", "name", preset.Name)
	}
	return inserted, nil
}

// PresetPatterns returns the stored presets in table order.
func (c *Catalog) PresetPatterns() ([]*model.Pattern, error) {
	var out []*model.Pattern
	for _, preset := range Presets() {
		p, err := c.GetPattern(PresetID(preset.Name))
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// History returns the most recent playbacks, newest first.
func (c *Catalog) History(limit int) ([]*model.PlaybackLogEntry, error) {
	entries, err := c.database.ListPlaybackLog(limit)
	if err != nil {
		return nil, fmt.Errorf("listing playback log: %w", err)
	}
	return entries, nil
}

// PatternHistory returns the most recent playbacks of one pattern, newest first.
func (c *Catalog) PatternHistory(id string, limit int) ([]*model.PlaybackLogEntry, error) {
	entries, err := c.database.ListPlaybackLogForPattern(id, limit)
	if err != nil {
		return nil, fmt.Errorf("listing playback log for %s: %w", id, err)
	}
	return entries, nil
}

// newPatternID derives an identifier from the name, the clock, and a random suffix.
func (c *Catalog) newPatternID(name string, now time.Time) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	return fmt.Sprintf("pattern_%s_%d_%s", slug, now.UnixMilli()%10000, c.suffix())
}

// documentSeparators keeps published names flat. Ids keep the pattern name verbatim,
// so a name like "door/bell" would otherwise read as a path.
var documentSeparators = strings.NewReplacer("/", "_", `\`, "_")

func documentName(id string) string {
	return documentSeparators.Replace(id)
}

func (c *Catalog) suffix() string {
	s := strings.ReplaceAll(c.idgen.New(), "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

func (c *Catalog) remember(p *model.Pattern) {
	c.patterns.Set(p.ID, clonePattern(p), cache.NoExpiration)
}

func clonePattern(p *model.Pattern) *model.Pattern {
	cp := *p
	cp.Sequence = append([]model.Step{}, p.Sequence...)
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		cp.CreatedAt = &t
	}
	return &cp
}
