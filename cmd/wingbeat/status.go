package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wingbeat/wingbeat/internal/config"
	"github.com/wingbeat/wingbeat/internal/state"
	"github.com/wingbeat/wingbeat/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show submitted prompts and their outputs",
	Long: `Display the prompts recorded in the wingbeat database.

Shows:
  - Prompt ids and lifecycle status
  - Fragment counts
  - Submission age and completion time
  - Collected outputs`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No prompts recorded. Run 'wingbeat run <prompt>' to start.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	prompts, err := db.ListPrompts()
	if err != nil {
		return fmt.Errorf("list prompts: %w", err)
	}

	if len(prompts) == 0 {
		fmt.Println("No prompts recorded. Run 'wingbeat run <prompt>' to start.")
		return nil
	}

	inFlight := 0
	for _, rec := range prompts {
		if rec.Status != models.PromptComplete {
			inFlight++
		}
	}

	fmt.Printf("Prompts: %d total, %d in flight\n\n", len(prompts), inFlight)
	for _, rec := range prompts {
		displayPrompt(rec)
	}
	return nil
}

func displayPrompt(rec *state.PromptRecord) {
	age := formatDuration(time.Since(rec.CreatedAt))

	fmt.Printf("%s  %-13s %2d fragments  %s ago\n", rec.ID[:8], rec.Status, rec.FragmentCount, age)
	fmt.Printf("  prompt: %s\n", truncate(rec.Content, 60))
	if rec.Output != "" {
		fmt.Printf("  output: %s\n", truncate(rec.Output, 60))
	}
	fmt.Println()
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}

// truncate shortens a string for one-line display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
