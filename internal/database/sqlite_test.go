package database

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"haptic-go/internal/haptic"
	"haptic-go/internal/model"
)

// newTestDB creates a new in-memory database with migrations applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func testPattern(id, name string, category model.Category) *model.Pattern {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Pattern{
		ID:          id,
		Name:        name,
		Category:    category,
		Description: "test pattern",
		Sequence: []model.Step{
			{Kind: model.KindPulse, DurationMS: 100, Intensity: 0.5, PauseAfterMS: 50},
			{Kind: model.KindTap, DurationMS: 20, Intensity: 0.9},
		},
		DurationMS: 170,
		Intensity:  0.5,
		Repeat:     1,
		CreatedAt:  &created,
	}
}

func TestSQLiteDatabase_FindPatternByID(t *testing.T) {
	t.Run("returns nil when pattern not found", func(t *testing.T) {
		db := newTestDB(t)

		p, err := db.FindPatternByID("pattern_missing")
		if err != nil {
			t.Fatalf("FindPatternByID() error = %v", err)
		}
		if p != nil {
			t.Errorf("FindPatternByID() = %v, want nil", p)
		}
	})

	t.Run("finds inserted pattern", func(t *testing.T) {
		db := newTestDB(t)
		want := testPattern("pattern_alert_1", "alert", model.CategoryNotification)

		if err := db.InsertPattern(want); err != nil {
			t.Fatalf("InsertPattern() error = %v", err)
		}

		got, err := db.FindPatternByID("pattern_alert_1")
		if err != nil {
			t.Fatalf("FindPatternByID() error = %v", err)
		}
		if got == nil {
			t.Fatal("FindPatternByID() returned nil, want pattern")
		}
		if got.Name != want.Name || got.Category != want.Category || got.Description != want.Description {
			t.Errorf("FindPatternByID() = %+v, want %+v", got, want)
		}
		if got.DurationMS != 170 || got.Repeat != 1 || got.Intensity != 0.5 {
			t.Errorf("derived fields = (%d, %d, %v), want (170, 1, 0.5)", got.DurationMS, got.Repeat, got.Intensity)
		}
		if len(got.Sequence) != 2 {
			t.Fatalf("len(Sequence) = %d, want 2", len(got.Sequence))
		}
		for i := range want.Sequence {
			if got.Sequence[i] != want.Sequence[i] {
				t.Errorf("Sequence[%d] = %+v, want %+v", i, got.Sequence[i], want.Sequence[i])
			}
		}
		if got.CreatedAt == nil || !got.CreatedAt.Equal(*want.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
		}
		if got.IsPreset {
			t.Error("IsPreset = true, want false")
		}
	})

	t.Run("empty sequence round-trips as empty", func(t *testing.T) {
		db := newTestDB(t)
		p := testPattern("pattern_empty_1", "empty", model.CategoryGame)
		p.Sequence = nil
		p.DurationMS = 0

		if err := db.InsertPattern(p); err != nil {
			t.Fatalf("InsertPattern() error = %v", err)
		}

		got, err := db.FindPatternByID("pattern_empty_1")
		if err != nil {
			t.Fatalf("FindPatternByID() error = %v", err)
		}
		if len(got.Sequence) != 0 {
			t.Errorf("Sequence = %v, want empty", got.Sequence)
		}
	})
}

func TestSQLiteDatabase_InsertPattern(t *testing.T) {
	t.Run("rejects duplicate id", func(t *testing.T) {
		db := newTestDB(t)

		if err := db.InsertPattern(testPattern("pattern_dup", "a", model.CategoryGame)); err != nil {
			t.Fatalf("InsertPattern() error = %v", err)
		}
		err := db.InsertPattern(testPattern("pattern_dup", "b", model.CategoryMedia))
		if !errors.Is(err, haptic.ErrDuplicateIdentifier) {
			t.Errorf("InsertPattern() error = %v, want ErrDuplicateIdentifier", err)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		db := newTestDB(t)

		err := db.InsertPattern(testPattern("pattern_bad", "bad", model.Category("bogus")))
		if err == nil {
			t.Error("InsertPattern() expected error for unknown category, got nil")
		}
	})

	t.Run("allows duplicate names outside presets", func(t *testing.T) {
		db := newTestDB(t)

		if err := db.InsertPattern(testPattern("pattern_x_1", "same", model.CategoryGame)); err != nil {
			t.Fatalf("InsertPattern() error = %v", err)
		}
		if err := db.InsertPattern(testPattern("pattern_x_2", "same", model.CategoryGame)); err != nil {
			t.Errorf("InsertPattern() second error = %v", err)
		}
	})
}

func TestSQLiteDatabase_InsertPresetIfAbsent(t *testing.T) {
	db := newTestDB(t)
	p := testPattern("preset_heartbeat", "heartbeat", model.CategoryAccessibility)
	p.CreatedAt = nil

	inserted, err := db.InsertPresetIfAbsent(p)
	if err != nil {
		t.Fatalf("InsertPresetIfAbsent() error = %v", err)
	}
	if !inserted {
		t.Error("InsertPresetIfAbsent() first call = false, want true")
	}

	inserted, err = db.InsertPresetIfAbsent(p)
	if err != nil {
		t.Fatalf("InsertPresetIfAbsent() second error = %v", err)
	}
	if inserted {
		t.Error("InsertPresetIfAbsent() second call = true, want false")
	}

	found, err := db.FindPresetByName("heartbeat")
	if err != nil {
		t.Fatalf("FindPresetByName() error = %v", err)
	}
	if found == nil {
		t.Fatal("FindPresetByName() returned nil")
	}
	if !found.IsPreset {
		t.Error("IsPreset = false, want true")
	}
	if found.CreatedAt != nil {
		t.Errorf("CreatedAt = %v, want nil", found.CreatedAt)
	}

	missing, err := db.FindPresetByName("nope")
	if err != nil {
		t.Fatalf("FindPresetByName() error = %v", err)
	}
	if missing != nil {
		t.Errorf("FindPresetByName() = %v, want nil", missing)
	}

	presets, err := db.ListPresets()
	if err != nil {
		t.Fatalf("ListPresets() error = %v", err)
	}
	if len(presets) != 1 {
		t.Errorf("len(ListPresets()) = %d, want 1", len(presets))
	}
}

func TestSQLiteDatabase_ListPatterns(t *testing.T) {
	db := newTestDB(t)

	for _, p := range []*model.Pattern{
		testPattern("pattern_c", "charlie", model.CategoryGame),
		testPattern("pattern_a", "alpha", model.CategoryGame),
		testPattern("pattern_b", "bravo", model.CategoryMedia),
	} {
		if err := db.InsertPattern(p); err != nil {
			t.Fatalf("InsertPattern() error = %v", err)
		}
	}

	t.Run("all categories ordered by name", func(t *testing.T) {
		got, err := db.ListPatterns("")
		if err != nil {
			t.Fatalf("ListPatterns() error = %v", err)
		}
		want := []string{"alpha", "bravo", "charlie"}
		if len(got) != len(want) {
			t.Fatalf("len(ListPatterns()) = %d, want %d", len(got), len(want))
		}
		for i, name := range want {
			if got[i].Name != name {
				t.Errorf("ListPatterns()[%d].Name = %q, want %q", i, got[i].Name, name)
			}
		}
	})

	t.Run("filtered by category", func(t *testing.T) {
		got, err := db.ListPatterns(model.CategoryGame)
		if err != nil {
			t.Fatalf("ListPatterns() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len(ListPatterns(game)) = %d, want 2", len(got))
		}
		for _, s := range got {
			if s.Category != model.CategoryGame {
				t.Errorf("Category = %q, want game", s.Category)
			}
			if s.DurationMS != 170 {
				t.Errorf("DurationMS = %d, want 170", s.DurationMS)
			}
		}
	})

	t.Run("category with no patterns", func(t *testing.T) {
		got, err := db.ListPatterns(model.CategoryNavigation)
		if err != nil {
			t.Fatalf("ListPatterns() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(ListPatterns(navigation)) = %d, want 0", len(got))
		}
	})
}

func TestSQLiteDatabase_PlaybackLog(t *testing.T) {
	db := newTestDB(t)
	if err := db.InsertPattern(testPattern("pattern_a", "alpha", model.CategoryGame)); err != nil {
		t.Fatalf("InsertPattern() error = %v", err)
	}
	if err := db.InsertPattern(testPattern("pattern_b", "bravo", model.CategoryGame)); err != nil {
		t.Fatalf("InsertPattern() error = %v", err)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i, patternID := range []string{"pattern_a", "pattern_b", "pattern_a"} {
		entry := &model.PlaybackLogEntry{
			PatternID:  patternID,
			Device:     "default",
			PlayedAt:   base.Add(time.Duration(i) * time.Second),
			DurationMS: 170,
		}
		id, err := db.AppendPlaybackLog(entry)
		if err != nil {
			t.Fatalf("AppendPlaybackLog() error = %v", err)
		}
		if entry.ID != id {
			t.Errorf("entry.ID = %d, want %d", entry.ID, id)
		}
		ids = append(ids, id)
	}
	if !(ids[0] < ids[1] && ids[1] < ids[2]) {
		t.Errorf("ids not increasing: %v", ids)
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := db.ListPlaybackLog(0)
		if err != nil {
			t.Fatalf("ListPlaybackLog() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len(ListPlaybackLog()) = %d, want 3", len(got))
		}
		if got[0].ID != ids[2] || got[2].ID != ids[0] {
			t.Errorf("ListPlaybackLog() order = [%d .. %d], want [%d .. %d]", got[0].ID, got[2].ID, ids[2], ids[0])
		}
		if !got[2].PlayedAt.Equal(base) {
			t.Errorf("PlayedAt = %v, want %v", got[2].PlayedAt, base)
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := db.ListPlaybackLog(2)
		if err != nil {
			t.Fatalf("ListPlaybackLog() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len(ListPlaybackLog(2)) = %d, want 2", len(got))
		}
	})

	t.Run("per pattern", func(t *testing.T) {
		got, err := db.ListPlaybackLogForPattern("pattern_a", 10)
		if err != nil {
			t.Fatalf("ListPlaybackLogForPattern() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len(ListPlaybackLogForPattern()) = %d, want 2", len(got))
		}
		for _, e := range got {
			if e.PatternID != "pattern_a" {
				t.Errorf("PatternID = %q, want pattern_a", e.PatternID)
			}
		}
	})

	t.Run("rejects unknown pattern", func(t *testing.T) {
		_, err := db.AppendPlaybackLog(&model.PlaybackLogEntry{
			PatternID: "pattern_missing",
			Device:    "default",
			PlayedAt:  base,
		})
		if err == nil {
			t.Error("AppendPlaybackLog() expected foreign key error, got nil")
		}
	})
}

func TestSQLiteDatabase_CheckMigrations(t *testing.T) {
	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase() error = %v", err)
	}
	defer db.Close()

	if err := db.CheckMigrations(); err == nil {
		t.Error("CheckMigrations() on fresh database expected error, got nil")
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() after Migrate error = %v", err)
	}

	status, err := db.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if !status.UpToDate() {
		t.Errorf("MigrationStatus() = %+v, want up to date", status)
	}
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	db := newTestDB(t)
	if err := db.InsertPattern(testPattern("pattern_a", "alpha", model.CategoryGame)); err != nil {
		t.Fatalf("InsertPattern() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	restored, err := NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("NewSQLiteDatabase(backup) error = %v", err)
	}
	defer restored.Close()

	if err := restored.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() on backup error = %v", err)
	}
	p, err := restored.FindPatternByID("pattern_a")
	if err != nil {
		t.Fatalf("FindPatternByID() error = %v", err)
	}
	if p == nil {
		t.Error("backup is missing pattern_a")
	}
}

func TestSQLiteDatabase_Schema(t *testing.T) {
	db := newTestDB(t)

	schema, err := db.Schema()
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}

	for _, want := range []string{
		"CREATE TABLE patterns",
		"CREATE TABLE playback_log",
		"idx_patterns_preset_name",
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("Schema() missing %q", want)
		}
	}
	if strings.Contains(schema, "schema_migrations") {
		t.Error("Schema() should not include schema_migrations")
	}
}
