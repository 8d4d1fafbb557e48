package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"haptic-go/internal/config"
	"haptic-go/internal/database"
	"haptic-go/internal/database/migrations"
	"haptic-go/internal/devicefmt"
	"haptic-go/internal/haptic"
	"haptic-go/internal/model"
	"haptic-go/internal/sink"
)

// HapticApp is the application layer between the CLI and the Catalog.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw CLI strings, and manages the DB lifecycle on Close.
type HapticApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	sink    haptic.Sink
	catalog *haptic.Catalog
	logger  haptic.Logger
	logFile *os.File
}

// NewHapticApp creates a fully wired HapticApp from the given config.
// operation identifies the CLI command being run (e.g. "Play", "Compose").
// Pending schema migrations are applied and the built-in presets are seeded.
// The caller must call Close when done.
func NewHapticApp(cfg *config.Config, operation string) (*HapticApp, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if _, err := devicefmt.ParseFormat(cfg.Export.Format); err != nil {
		return nil, fmt.Errorf("export config: %w", err)
	}

	out, err := sink.NewSinkFromConfig(cfg.Export)
	if err != nil {
		return nil, fmt.Errorf("creating export sink: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	op := NewOperation(operation, time.Now())
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID(), level)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	catalog := haptic.NewCatalog(db, logger, haptic.RealClock{}, haptic.UUIDGenerator{})
	if _, err := catalog.SeedPresets(); err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("seeding presets: %w", err)
	}

	return &HapticApp{
		cfg:     cfg,
		db:      db,
		sink:    out,
		catalog: catalog,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// ListPatterns returns pattern summaries, optionally restricted to one category.
func (a *HapticApp) ListPatterns(category string) ([]*model.PatternSummary, error) {
	return a.catalog.ListPatterns(model.Category(category))
}

// GetPattern returns the pattern with the given id, or ErrNotFound.
func (a *HapticApp) GetPattern(id string) (*model.Pattern, error) {
	p, err := a.catalog.GetPattern(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", haptic.ErrNotFound, id)
	}
	return p, nil
}

// CreatePattern parses steps in "kind:duration:intensity[:pause]" form and stores a new pattern.
func (a *HapticApp) CreatePattern(name, category string, steps []string, description string, repeat int) (string, error) {
	sequence := make([]model.Step, 0, len(steps))
	for _, raw := range steps {
		st, err := model.ParseStep(raw)
		if err != nil {
			return "", err
		}
		sequence = append(sequence, st)
	}
	return a.catalog.CreatePattern(name, model.Category(category), sequence, description, repeat)
}

// CreateFromFile stores the pattern described by a YAML or JSON definition file.
func (a *HapticApp) CreateFromFile(path string) (string, error) {
	def, err := ReadDefinitionFile(path)
	if err != nil {
		return "", err
	}
	return a.catalog.CreatePattern(def.Name, def.Category, def.Sequence, def.Description, def.Repeat)
}

// Compose concatenates the given patterns into a new stored pattern.
func (a *HapticApp) Compose(ids []string) (*model.Pattern, error) {
	return a.catalog.Compose(ids)
}

// Play plays a pattern on device, or on the configured default device when empty.
func (a *HapticApp) Play(id, device string) (*haptic.PlaybackResult, error) {
	if device == "" {
		device = a.cfg.Playback.DefaultDevice
	}
	return a.catalog.Play(id, device)
}

// Presets returns the built-in presets in table order.
func (a *HapticApp) Presets() ([]*model.Pattern, error) {
	return a.catalog.PresetPatterns()
}

// Export writes the device export document for id to w.
// An unknown id writes the empty document.
func (a *HapticApp) Export(w io.Writer, id, format string) error {
	f, err := a.format(format)
	if err != nil {
		return err
	}
	doc, err := a.catalog.ExportDeviceFormat(id)
	if err != nil {
		return err
	}
	return devicefmt.Encode(w, doc, f)
}

// Publish stores the device export document for id in the configured sink
// and returns the stored name.
func (a *HapticApp) Publish(id, format string) (string, error) {
	f, err := a.format(format)
	if err != nil {
		return "", err
	}
	return a.catalog.Publish(a.sink, id, f)
}

// Published returns the names of the documents in the configured sink.
func (a *HapticApp) Published() ([]string, error) {
	return a.sink.List()
}

// GenerateFromAudio creates a media pattern for the audio file at path.
func (a *HapticApp) GenerateFromAudio(path string) (string, error) {
	return a.catalog.GenerateFromAudio(path)
}

// History returns recent playbacks, newest first. A non-empty patternID restricts
// the history to that pattern.
func (a *HapticApp) History(patternID string, limit int) ([]*model.PlaybackLogEntry, error) {
	if patternID != "" {
		return a.catalog.PatternHistory(patternID, limit)
	}
	return a.catalog.History(limit)
}

// MigrationStatus reports the schema version of the store.
func (a *HapticApp) MigrationStatus() (migrations.Status, error) {
	return a.db.MigrationStatus()
}

// Schema returns the CREATE statements of the store.
func (a *HapticApp) Schema() (string, error) {
	return a.db.Schema()
}

// BackupDatabase writes a consistent copy of the store to destPath.
// destPath must not exist.
func (a *HapticApp) BackupDatabase(destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("backup destination already exists: %s", destPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking backup destination: %w", err)
	}
	if err := a.db.BackupTo(destPath); err != nil {
		return err
	}
	a.logger.Info("database backed up", "path", destPath)
	return nil
}

// Close closes the database and the log file.
func (a *HapticApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

func (a *HapticApp) format(s string) (devicefmt.Format, error) {
	if s == "" {
		s = a.cfg.Export.Format
	}
	return devicefmt.ParseFormat(s)
}
