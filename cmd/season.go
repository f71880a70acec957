package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/aggregator"
	"github.com/JLammering/Volleyball-Stats/internal/report"
)

var seasonFormat string

var seasonCmd = &cobra.Command{
	Use:   "season [<season> <team>]",
	Short: "Season totals per player from stored games",
	Long: `Fold every stored game of one team season into per-player totals.
Players are matched across games by display name.

Without arguments, lists the stored team seasons.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <season> <team>, got %d", len(args))
		}
		return nil
	},
	RunE: runSeason,
}

func init() {
	seasonCmd.Flags().StringVar(&seasonFormat, "format", "text", "output format (text|html|pdf); html and pdf go to stdout")
}

func runSeason(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		refs, err := db.ListSeasons()
		if err != nil {
			return fmt.Errorf("list seasons: %w", err)
		}
		if len(refs) == 0 {
			fmt.Fprintln(os.Stdout, "No games stored yet.")
			return nil
		}
		report.PrintSeasonList(os.Stdout, refs)
		return nil
	}

	format, err := report.ParseFormat(seasonFormat)
	if err != nil {
		return err
	}
	season, team := args[0], args[1]
	games, err := db.LoadSeasonGames(season, team)
	if err != nil {
		return fmt.Errorf("load season: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintf(os.Stderr, "No games stored for %s/%s\n", season, team)
		return nil
	}
	totals := aggregator.ComputeSeasonStats(season, team, games)
	return report.Render(os.Stdout, format, report.SeasonDocument(totals))
}
