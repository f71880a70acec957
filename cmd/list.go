package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/report"
)

var (
	listSeason string
	listTeam   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSeason, "season", "", "only games of this season directory (e.g. 2023_24)")
	listCmd.Flags().StringVar(&listTeam, "team", "", "only games of this team directory")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.ListGames(listSeason, listTeam)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'vbstats process <data-dir>' to add some.")
		return nil
	}
	report.PrintGameList(os.Stdout, games)
	return nil
}
