package main

import (
	"fmt"
	"os"
	"strconv"

	"studyvault/internal/app"
	"studyvault/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Stats", "ReviewCard").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "studyvault",
	Short: "Quota-bounded local store for study artifacts",
}

// shortID abbreviates an ID for list output. Imported blobs may carry
// IDs shorter than the usual UUID, so the slice is bounds-checked.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
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
		fmt.Printf("Quota:    %d bytes\n", cfg.Quota.MaxBytes)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Store:     %s\n", cfg.Store.Type)
		fmt.Printf("Quota:     %d bytes (%s)\n", cfg.Quota.MaxBytes, cfg.Quota.Encoding)
		fmt.Printf("Soft caps: %d sessions, %d files\n",
			cfg.Eviction.SessionSoftCap, cfg.Eviction.FileSoftCap)
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View storage usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Service().Stats()
		if err != nil {
			return fmt.Errorf("computing stats: %w", err)
		}

		fmt.Printf("Used:      %d / %d bytes (%.1f%%) [%s]\n",
			stats.UsedBytes, stats.QuotaBytes, stats.PercentUsed, stats.Level)
		fmt.Printf("Files:     %d\n", stats.FileCount)
		fmt.Printf("Sessions:  %d\n", stats.SessionCount)
		fmt.Printf("Cards:     %d\n", stats.CardCount)
		fmt.Printf("Concepts:  %d\n", stats.ConceptCount)
		fmt.Printf("Formulas:  %d\n", stats.FormulaCount)
		fmt.Printf("Mind maps: %d\n", stats.MindMapCount)
		return nil
	},
}

// files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage file records",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded file records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListFiles")
		if err != nil {
			return err
		}
		defer a.Close()

		files := a.Service().Files()
		if len(files) == 0 {
			fmt.Println("No file records.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %-30s  %d bytes  %d pages  %s\n",
				shortID(f.ID), f.Name, f.ByteSize, f.PageCount,
				f.UploadedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a file record and its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteFile")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteFile(args[0]); err != nil {
			return fmt.Errorf("deleting file: %w", err)
		}
		fmt.Printf("Deleted file record %s\n", args[0])
		return nil
	},
}

// sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage study sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListSessions")
		if err != nil {
			return err
		}
		defer a.Close()

		sessions := a.Service().Sessions()
		if len(sessions) == 0 {
			fmt.Println("No sessions.")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %-30s  %d messages  %d pages  updated %s\n",
				shortID(s.ID), s.FileName, len(s.Messages), len(s.Pages),
				s.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteSession")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteSession(args[0]); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

// cards command
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage flashcards",
}

var cardsDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DueCards")
		if err != nil {
			return err
		}
		defer a.Close()

		due := a.Service().DueCards()
		if len(due) == 0 {
			fmt.Println("No cards due.")
			return nil
		}
		for _, c := range due {
			fmt.Printf("%s  %-40s  interval %dd  ease %.2f\n",
				shortID(c.ID), c.Front, c.Scheduling.IntervalDays, c.Scheduling.EaseFactor)
		}
		return nil
	},
}

var cardsReviewCmd = &cobra.Command{
	Use:   "review ID RATING",
	Short: "Review a card with a rating from 0 (forgot) to 5 (perfect)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("rating must be a number: %w", err)
		}

		a, err := newApp("ReviewCard")
		if err != nil {
			return err
		}
		defer a.Close()

		card, err := a.Service().ReviewCard(args[0], rating)
		if err != nil {
			return fmt.Errorf("reviewing card: %w", err)
		}

		fmt.Printf("Next review in %d day(s) (ease %.2f, repetition %d)\n",
			card.Scheduling.IntervalDays, card.Scheduling.EaseFactor, card.Scheduling.Repetitions)
		return nil
	},
}

// mindmaps command
var mindmapsCmd = &cobra.Command{
	Use:   "mindmaps",
	Short: "Manage mind maps",
}

var mindmapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored mind maps",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListMindMaps")
		if err != nil {
			return err
		}
		defer a.Close()

		maps := a.Service().MindMaps()
		if len(maps) == 0 {
			fmt.Println("No mind maps.")
			return nil
		}
		for _, m := range maps {
			fmt.Printf("%s  %-30s  %d nodes  updated %s\n",
				shortID(m.ID), m.Title, len(m.Nodes),
				m.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var mindmapsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a mind map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteMindMap")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteMindMap(args[0]); err != nil {
			return fmt.Errorf("deleting mind map: %w", err)
		}
		fmt.Printf("Deleted mind map %s\n", args[0])
		return nil
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search notes by relevance",
}

var searchConceptsCmd = &cobra.Command{
	Use:   "concepts QUERY",
	Short: "Search knowledge concepts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("SearchConcepts")
		if err != nil {
			return err
		}
		defer a.Close()

		results := a.Service().SearchConcepts(args[0], limit)
		if len(results) == 0 {
			fmt.Println("No matching concepts.")
			return nil
		}
		for _, c := range results {
			fmt.Printf("%s  [%s]  %s\n", shortID(c.ID), c.Importance, c.Title)
		}
		return nil
	},
}

var searchFormulasCmd = &cobra.Command{
	Use:   "formulas QUERY",
	Short: "Search formulas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("SearchFormulas")
		if err != nil {
			return err
		}
		defer a.Close()

		results := a.Service().SearchFormulas(args[0], limit)
		if len(results) == 0 {
			fmt.Println("No matching formulas.")
			return nil
		}
		for _, f := range results {
			name := f.Name
			if name == "" {
				name = f.LaTeX
			}
			fmt.Printf("%s  %s\n", shortID(f.ID), name)
		}
		return nil
	},
}

// export / import commands
var exportCmd = &cobra.Command{
	Use:   "export {docs|notes} FILE",
	Short: "Export a backup blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		var blob string
		switch args[0] {
		case "docs":
			blob, err = a.Service().ExportAll()
		case "notes":
			blob, err = a.Service().ExportNotes()
		default:
			return fmt.Errorf("unknown export kind: %s (want docs or notes)", args[0])
		}
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}

		if err := os.WriteFile(args[1], []byte(blob), 0644); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}
		fmt.Printf("Exported %s to %s\n", args[0], args[1])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import {docs|notes} FILE",
	Short: "Import a backup blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}

		a, err := newApp("Import")
		if err != nil {
			return err
		}
		defer a.Close()

		switch args[0] {
		case "docs":
			err = a.Service().ImportAll(string(blob))
		case "notes":
			err = a.Service().ImportNotes(string(blob))
		default:
			return fmt.Errorf("unknown import kind: %s (want docs or notes)", args[0])
		}
		if err != nil {
			return fmt.Errorf("importing: %w", err)
		}
		fmt.Printf("Imported %s from %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// files subcommands
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesDeleteCmd)

	// sessions subcommands
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	// cards subcommands
	cardsCmd.AddCommand(cardsDueCmd)
	cardsCmd.AddCommand(cardsReviewCmd)

	// mindmaps subcommands
	mindmapsCmd.AddCommand(mindmapsListCmd)
	mindmapsCmd.AddCommand(mindmapsDeleteCmd)

	// search subcommands
	searchCmd.AddCommand(searchConceptsCmd)
	searchCmd.AddCommand(searchFormulasCmd)
	searchConceptsCmd.Flags().IntP("limit", "n", 5, "Maximum number of results")
	searchFormulasCmd.Flags().IntP("limit", "n", 5, "Maximum number of results")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(mindmapsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
