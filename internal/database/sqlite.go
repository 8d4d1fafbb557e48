package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"haptic-go/internal/database/migrations"
	"haptic-go/internal/haptic"
	"haptic-go/internal/model"
)

// SQLiteDatabase implements the haptic.Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens a SQLite database.
// path can be a file path or ":memory:" for an in-memory database.
// The schema is not touched; call Migrate or CheckMigrations.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens a SQLite connection with foreign keys enforced.
// File databases use WAL and a busy timeout so several processes can share them.
// In-memory databases are pinned to one connection, since each connection would
// otherwise see its own empty database.
func OpenConnection(path string) (*sql.DB, error) {
	inMemory := path == ":memory:"

	dsn := "file::memory:?_foreign_keys=on"
	if !inMemory {
		dsn = "file:" + path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

const patternColumns = `id, name, category, description, sequence, duration_ms, intensity, repeat_count, created_at, is_preset`

const insertPatternSQL = `INSERT INTO patterns (` + patternColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Pattern operations

func (s *SQLiteDatabase) InsertPattern(p *model.Pattern) error {
	args, err := patternArgs(p)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(insertPatternSQL, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", haptic.ErrDuplicateIdentifier, p.ID)
		}
		return fmt.Errorf("inserting pattern: %w", err)
	}
	return nil
}

// InsertPresetIfAbsent relies on the partial unique index over preset names, so a
// concurrent seeder inserting the same preset is ignored rather than reported.
func (s *SQLiteDatabase) InsertPresetIfAbsent(p *model.Pattern) (bool, error) {
	preset := *p
	preset.IsPreset = true

	args, err := patternArgs(&preset)
	if err != nil {
		return false, err
	}

	res, err := s.db.Exec(strings.Replace(insertPatternSQL, "INSERT INTO", "INSERT OR IGNORE INTO", 1), args...)
	if err != nil {
		return false, fmt.Errorf("inserting preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting preset: %w", err)
	}
	return n == 1, nil
}

func (s *SQLiteDatabase) FindPresetByName(name string) (*model.Pattern, error) {
	row := s.db.QueryRow(`SELECT `+patternColumns+` FROM patterns WHERE is_preset = 1 AND name = ?`, name)
	p, err := scanPattern(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding preset by name: %w", err)
	}
	return p, nil
}

func (s *SQLiteDatabase) ListPresets() ([]*model.Pattern, error) {
	rows, err := s.db.Query(`SELECT ` + patternColumns + ` FROM patterns WHERE is_preset = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	defer rows.Close()

	var result []*model.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	return result, nil
}

func (s *SQLiteDatabase) FindPatternByID(id string) (*model.Pattern, error) {
	row := s.db.QueryRow(`SELECT `+patternColumns+` FROM patterns WHERE id = ?`, id)
	p, err := scanPattern(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding pattern by id: %w", err)
	}
	return p, nil
}

func (s *SQLiteDatabase) ListPatterns(category model.Category) ([]*model.PatternSummary, error) {
	query := `SELECT id, name, category, duration_ms, intensity, is_preset FROM patterns`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	defer rows.Close()

	var result []*model.PatternSummary
	for rows.Next() {
		var (
			ps  model.PatternSummary
			cat string
		)
		if err := rows.Scan(&ps.ID, &ps.Name, &cat, &ps.DurationMS, &ps.Intensity, &ps.IsPreset); err != nil {
			return nil, fmt.Errorf("scanning pattern summary: %w", err)
		}
		ps.Category = model.Category(cat)
		result = append(result, &ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	return result, nil
}

// Playback log operations

func (s *SQLiteDatabase) AppendPlaybackLog(entry *model.PlaybackLogEntry) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO playback_log (pattern_id, device, played_at, duration_ms) VALUES (?, ?, ?, ?)`,
		entry.PatternID, entry.Device, entry.PlayedAt, entry.DurationMS,
	)
	if err != nil {
		return 0, fmt.Errorf("appending playback log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading playback log id: %w", err)
	}
	entry.ID = id
	return id, nil
}

func (s *SQLiteDatabase) ListPlaybackLog(limit int) ([]*model.PlaybackLogEntry, error) {
	return s.queryPlaybackLog(
		`SELECT id, pattern_id, device, played_at, duration_ms FROM playback_log ORDER BY id DESC LIMIT ?`,
		sqlLimit(limit),
	)
}

func (s *SQLiteDatabase) ListPlaybackLogForPattern(patternID string, limit int) ([]*model.PlaybackLogEntry, error) {
	return s.queryPlaybackLog(
		`SELECT id, pattern_id, device, played_at, duration_ms FROM playback_log WHERE pattern_id = ? ORDER BY id DESC LIMIT ?`,
		patternID, sqlLimit(limit),
	)
}

func (s *SQLiteDatabase) queryPlaybackLog(query string, args ...any) ([]*model.PlaybackLogEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing playback log: %w", err)
	}
	defer rows.Close()

	var result []*model.PlaybackLogEntry
	for rows.Next() {
		var e model.PlaybackLogEntry
		if err := rows.Scan(&e.ID, &e.PatternID, &e.Device, &e.PlayedAt, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning playback log entry: %w", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing playback log: %w", err)
	}
	return result, nil
}

// Schema and maintenance

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Migrate applies any pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.Up(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// MigrationStatus reports the applied and available schema versions.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// row is satisfied by both *sql.Row and *sql.Rows.
type row interface {
	Scan(dest ...any) error
}

func scanPattern(r row) (*model.Pattern, error) {
	var (
		p         model.Pattern
		category  string
		sequence  string
		createdAt sql.NullTime
	)
	err := r.Scan(&p.ID, &p.Name, &category, &p.Description, &sequence,
		&p.DurationMS, &p.Intensity, &p.Repeat, &createdAt, &p.IsPreset)
	if err != nil {
		return nil, err
	}

	p.Category = model.Category(category)
	if err := json.Unmarshal([]byte(sequence), &p.Sequence); err != nil {
		return nil, fmt.Errorf("decoding sequence of %s: %w", p.ID, err)
	}
	if createdAt.Valid {
		t := createdAt.Time
		p.CreatedAt = &t
	}
	return &p, nil
}

// patternArgs returns the insert arguments in patternColumns order.
// The sequence is stored as an order-preserving JSON array.
func patternArgs(p *model.Pattern) ([]any, error) {
	sequence := p.Sequence
	if sequence == nil {
		sequence = []model.Step{}
	}
	encoded, err := json.Marshal(sequence)
	if err != nil {
		return nil, fmt.Errorf("encoding sequence of %s: %w", p.ID, err)
	}

	var createdAt sql.NullTime
	if p.CreatedAt != nil {
		createdAt = sql.NullTime{Time: *p.CreatedAt, Valid: true}
	}

	return []any{
		p.ID, p.Name, string(p.Category), p.Description, string(encoded),
		p.DurationMS, p.Intensity, p.Repeat, createdAt, p.IsPreset,
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// Compile-time check that SQLiteDatabase implements haptic.Database interface
var _ haptic.Database = (*SQLiteDatabase)(nil)
