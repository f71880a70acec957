package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/aggregator"
	"github.com/JLammering/Volleyball-Stats/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend <season> <team> <player-name>",
	Short: "Game-by-game plus-minus trend for one player",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	season, team := args[0], args[1]
	name := strings.Join(args[2:], " ")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.LoadSeasonGames(season, team)
	if err != nil {
		return fmt.Errorf("load season: %w", err)
	}
	lines := aggregator.PlayerTrend(games, name)
	if len(lines) == 0 {
		fmt.Println("no games found")
		return nil
	}
	return report.WriteText(os.Stdout, report.TrendDocument(season, team, name, lines))
}
