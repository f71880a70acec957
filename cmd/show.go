package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <game-id-prefix>",
	Short: "Show stored set and game stats for one game",
	Long:  "Show a stored game by id prefix. Game ids look like 2023_24/H1/TSC-MTV.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetGameByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No game found with id prefix %q\n", prefix)
		return nil
	}

	g, err := db.LoadGame(summary.ID)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		return fmt.Errorf("game %s disappeared while loading", summary.ID)
	}
	return report.WriteText(os.Stdout, report.GameDocument(*g))
}
