package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  games(id, season, team, home_team, away_team, is_home, sets_won, sets_lost,
    total_points, processed_at)
  sets(game_id, set_number, own_points, opponent_points)
  player_set_stats(game_id, set_number, number, name, plus_minus, points_played)
  player_intervals(game_id, set_number, number, seq, name,
    start_own, start_opp, end_own, end_opp)
  player_game_stats(game_id, number, name, plus_minus, points_played, sets_played)

Game ids look like 2023_24/H1/TSC-MTV.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
