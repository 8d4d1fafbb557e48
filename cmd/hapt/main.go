package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"haptic-go/internal/app"
	"haptic-go/internal/config"
	"haptic-go/internal/model"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp loads the config and creates a HapticApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Play", "Compose").
func newApp(operation string) (*app.HapticApp, error) {
	cfg, _, _, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewHapticApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "hapt",
	Short:        "Haptic pattern catalog",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, found, err := app.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if found {
			fmt.Printf("Configuration from %s:\n\n", path)
		} else {
			fmt.Printf("No configuration at %s, using defaults:\n\n", path)
		}
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Log Level:      %s\n", cfg.LogLevel)
		fmt.Printf("Database:       %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Export:         %s %s (%s)\n", cfg.Export.Type, cfg.Export.Dir, cfg.Export.Format)
		fmt.Printf("Default Device: %s\n", cfg.Playback.DefaultDevice)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		a, err := newApp("ListPatterns")
		if err != nil {
			return err
		}
		defer a.Close()

		patterns, err := a.ListPatterns(category)
		if err != nil {
			return err
		}

		if len(patterns) == 0 {
			fmt.Println("No patterns found.")
			return nil
		}

		for _, p := range patterns {
			preset := ""
			if p.IsPreset {
				preset = "  [preset]"
			}
			fmt.Printf("%-36s  %-20s  %-13s  %6dms%s\n", p.ID, p.Name, p.Category, p.DurationMS, preset)
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetPattern")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetPattern(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:          %s\n", p.ID)
		fmt.Printf("Name:        %s\n", p.Name)
		fmt.Printf("Category:    %s\n", p.Category)
		fmt.Printf("Description: %s\n", p.Description)
		fmt.Printf("Duration:    %dms\n", p.DurationMS)
		fmt.Printf("Intensity:   %.2f\n", p.Intensity)
		fmt.Printf("Repeat:      %d\n", p.Repeat)
		if p.CreatedAt != nil {
			fmt.Printf("Created:     %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		if p.IsPreset {
			fmt.Println("Preset:      yes")
		}
		fmt.Println("Sequence:")
		for i, st := range p.Sequence {
			fmt.Printf("  %2d  %-6s  %5dms  %.2f  pause %dms\n", i+1, st.Kind, st.DurationMS, st.Intensity, st.PauseAfterMS)
		}
		return nil
	},
}

// create command
var createCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Create a pattern",
	Long: `Create a pattern from --step flags or from a YAML/JSON definition file.

Steps are written kind:duration_ms:intensity[:pause_after_ms], for example:

  hapt create door_bell --category notification --step pulse:100:0.8:50 --step tap:30:0.4`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		category, _ := cmd.Flags().GetString("category")
		steps, _ := cmd.Flags().GetStringArray("step")
		repeat, _ := cmd.Flags().GetInt("repeat")
		description, _ := cmd.Flags().GetString("description")

		if file == "" && len(args) == 0 {
			return errors.New("a NAME or --file is required")
		}
		if file != "" && len(args) > 0 {
			return errors.New("NAME and --file are mutually exclusive")
		}

		a, err := newApp("CreatePattern")
		if err != nil {
			return err
		}
		defer a.Close()

		var id string
		if file != "" {
			id, err = a.CreateFromFile(file)
		} else {
			id, err = a.CreatePattern(args[0], category, steps, description, repeat)
		}
		if err != nil {
			return fmt.Errorf("creating pattern: %w", err)
		}

		fmt.Printf("Created pattern: %s\n", id)
		return nil
	},
}

// compose command
var composeCmd = &cobra.Command{
	Use:   "compose ID...",
	Short: "Compose patterns into a new one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Compose")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Compose(args)
		if err != nil {
			return fmt.Errorf("composing: %w", err)
		}

		fmt.Printf("Composed pattern: %s (%d steps, %dms)\n", p.ID, len(p.Sequence), p.DurationMS)
		return nil
	},
}

// play command
var playCmd = &cobra.Command{
	Use:   "play ID",
	Short: "Play a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device, _ := cmd.Flags().GetString("device")

		a, err := newApp("Play")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Play(args[0], device)
		if err != nil {
			return err
		}
		if res.NotFound {
			return fmt.Errorf("pattern not found: %s", res.PatternID)
		}

		fmt.Printf("Playing %s on %s (%dms)\n", res.PatternID, res.Device, res.TotalDurationMS)
		for _, e := range res.Timeline {
			fmt.Printf("  @%6dms  %-6s  %5dms  %.2f\n", e.TimeMS, e.Kind, e.DurationMS, e.Intensity)
		}
		return nil
	},
}

// presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Presets")
		if err != nil {
			return err
		}
		defer a.Close()

		presets, err := a.Presets()
		if err != nil {
			return err
		}

		for _, p := range presets {
			fmt.Printf("%-12s  %-13s  %6dms  x%d  %s\n", p.Name, p.Category, p.DurationMS, p.Repeat, p.Description)
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Export a pattern in device format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		publish, _ := cmd.Flags().GetBool("publish")

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		if publish {
			name, err := a.Publish(args[0], format)
			if err != nil {
				return fmt.Errorf("publishing: %w", err)
			}
			fmt.Printf("Published %s\n", name)
			return nil
		}

		return a.Export(os.Stdout, args[0], format)
	},
}

// exports command
var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List published exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Published")
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.Published()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No published exports.")
			return nil
		}
		fmt.Println(strings.Join(names, "\n"))
		return nil
	},
}

// generate command
var generateCmd = &cobra.Command{
	Use:   "generate AUDIO",
	Short: "Generate a pattern from an audio file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GenerateFromAudio")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.GenerateFromAudio(args[0])
		if err != nil {
			return fmt.Errorf("generating pattern: %w", err)
		}

		fmt.Printf("Generated pattern: %s\n", id)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history [ID]",
	Short: "View playback history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		patternID := ""
		if len(args) > 0 {
			patternID = args[0]
		}

		entries, err := a.History(patternID, limit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No playbacks recorded.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("#%d  %s  %-36s  %-12s  %dms\n",
				e.ID,
				e.PlayedAt.Format("2006-01-02 15:04:05"),
				e.PatternID,
				e.Device,
				e.DurationMS,
			)
		}
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and back up the pattern store",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("MigrationStatus")
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.MigrationStatus()
		if err != nil {
			return err
		}

		fmt.Printf("Schema version: %d (latest %d)\n", status.Current, status.Latest)
		if status.Dirty {
			fmt.Println("Schema is dirty: a migration failed part-way.")
		}
		return nil
	},
}

var dbSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Schema")
		if err != nil {
			return err
		}
		defer a.Close()

		schema, err := a.Schema()
		if err != nil {
			return err
		}
		fmt.Print(schema)
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Write a copy of the store to PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupDatabase")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupDatabase(args[0]); err != nil {
			return err
		}
		fmt.Printf("Backed up database to %s\n", args[0])
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// db subcommands
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbSchemaCmd)
	dbCmd.AddCommand(dbBackupCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("category", "c", "", "Only list patterns in this category ("+categoryList()+")")
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringP("category", "c", string(model.CategoryNotification), "Pattern category ("+categoryList()+")")
	createCmd.Flags().StringArrayP("step", "s", nil, "Step as kind:duration_ms:intensity[:pause_after_ms] (repeatable)")
	createCmd.Flags().IntP("repeat", "r", 1, "Number of times the sequence replays")
	createCmd.Flags().StringP("description", "d", "", "Free-text description")
	createCmd.Flags().StringP("file", "f", "", "Read the pattern from a YAML or JSON definition file")
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("device", "", "Target device (default from config)")
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "", "Output format: json or yaml (default from config)")
	exportCmd.Flags().Bool("publish", false, "Store the export in the configured sink instead of printing it")
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of playbacks to show")
}

func categoryList() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
