package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/aggregator"
	"github.com/JLammering/Volleyball-Stats/internal/report"
	"github.com/JLammering/Volleyball-Stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("vbstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("vbstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			var season, team string
			if len(args) > 0 {
				season = args[0]
			}
			if len(args) > 1 {
				team = args[1]
			}
			shellList(db, season, team)
		case "seasons":
			shellSeasons(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <game-id-prefix>")
				continue
			}
			shellShow(db, args[0])
		case "season":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: season <season> <team>")
				continue
			}
			shellSeason(db, args[0], args[1])
		case "trend":
			if len(args) < 3 {
				cError.Fprintln(os.Stderr, "usage: trend <season> <team> <player-name>")
				continue
			}
			shellTrend(db, args[0], args[1], strings.Join(args[2:], " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [season] [team]", "list stored games"},
		{"seasons", "list stored team seasons"},
		{"show <game-id-prefix>", "show a game's set and game stats"},
		{"season <season> <team>", "per-player season totals"},
		{"trend <season> <team> <name>", "game-by-game numbers for one player"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB, season, team string) {
	games, err := db.ListGames(season, team)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Println("No games stored yet.")
		return
	}
	report.PrintGameList(os.Stdout, games)
}

func shellSeasons(db *storage.DB) {
	refs, err := db.ListSeasons()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(refs) == 0 {
		cMuted.Println("No games stored yet.")
		return
	}
	report.PrintSeasonList(os.Stdout, refs)
}

func shellShow(db *storage.DB, prefix string) {
	summary, err := db.GetGameByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "no game found with prefix %q\n", prefix)
		return
	}
	g, err := db.LoadGame(summary.ID)
	if err != nil || g == nil {
		cError.Fprintf(os.Stderr, "error: could not load %s: %v\n", summary.ID, err)
		return
	}
	if err := report.WriteText(os.Stdout, report.GameDocument(*g)); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellSeason(db *storage.DB, season, team string) {
	games, err := db.LoadSeasonGames(season, team)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Printf("No games stored for %s/%s.\n", season, team)
		return
	}
	totals := aggregator.ComputeSeasonStats(season, team, games)
	if err := report.WriteText(os.Stdout, report.SeasonDocument(totals)); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellTrend(db *storage.DB, season, team, name string) {
	games, err := db.LoadSeasonGames(season, team)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	lines := aggregator.PlayerTrend(games, name)
	if len(lines) == 0 {
		cMuted.Printf("No games found for %q.\n", name)
		return
	}
	if err := report.WriteText(os.Stdout, report.TrendDocument(season, team, name, lines)); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
