package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/batch"
	"github.com/JLammering/Volleyball-Stats/internal/logging"
	"github.com/JLammering/Volleyball-Stats/internal/metrics"
	"github.com/JLammering/Volleyball-Stats/internal/model"
	"github.com/JLammering/Volleyball-Stats/internal/report"
	"github.com/JLammering/Volleyball-Stats/internal/storage"
)

var processCmd = &cobra.Command{
	Use:   "process [data-dir]",
	Short: "Compute and store stats for every game under a data directory",
	Long: `Walk <data-dir>/<season>/<team>/, reconstruct playing intervals for every game,
store the results and render one report per game plus a season report.

A game with invalid input is reported and skipped; the command only fails when
no game could be processed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVar(&cfg.DataDir, "data", cfg.DataDir, "root data directory")
	f.StringVar(&cfg.OutDir, "out", cfg.OutDir, "report output directory")
	f.StringVar(&cfg.Team, "team", cfg.Team, "code of the tracked team in game file names")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "games processed in parallel")
	f.StringVar(&cfg.Format, "format", cfg.Format, "report format (pdf|html|text)")
	f.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write run metrics to this textfile (disabled if empty)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	dataDir := cfg.DataDir
	if len(args) == 1 {
		dataDir = args[0]
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	runner := &batch.Runner{
		TrackedTeam: cfg.Team,
		Workers:     cfg.Workers,
		Logger:      logger,
		Metrics:     rec,
	}

	start := time.Now()
	results, err := runner.Run(cmd.Context(), dataDir)
	if err != nil {
		return fmt.Errorf("process %s: %w", dataDir, err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var processed, failed int
	for _, tr := range results {
		failed += len(tr.Failures)
		if err := dropFailed(db, tr.Failures); err != nil {
			return err
		}
		for _, g := range tr.Games {
			if err := db.SaveGame(g); err != nil {
				return fmt.Errorf("save game %s: %w", g.ID(), err)
			}
			if err := emitGame(format, g); err != nil {
				return err
			}
			processed++
		}
		if len(tr.Games) > 0 {
			if err := emitSeason(format, tr); err != nil {
				return err
			}
		}
	}

	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logging.Error(logger, "write metrics", err, logging.FieldPath, cfg.MetricsFile)
		}
	}

	fmt.Fprintf(os.Stdout, "\nProcessed %d game(s), %d failed, in %s\n",
		processed, failed, time.Since(start).Round(time.Millisecond))
	for _, tr := range results {
		for _, f := range tr.Failures {
			fmt.Fprintf(os.Stdout, "  FAILED %s\n", f.Error())
		}
	}

	if processed == 0 && failed > 0 {
		return fmt.Errorf("all %d game(s) failed", failed)
	}
	if processed == 0 {
		fmt.Fprintf(os.Stdout, "No games found under %s\n", dataDir)
	}
	return nil
}

// dropFailed removes stored results of games that no longer process, so season
// queries only fold games that passed this run.
func dropFailed(db *storage.DB, failures []batch.GameFailure) error {
	for _, f := range failures {
		if f.Game == "*" {
			logging.Warn(logger, "team failed, keeping stored games",
				logging.FieldSeason, f.Season, logging.FieldTeam, f.Team, logging.FieldError, f.Err)
			continue
		}
		id := model.GameID(f.Season, f.Team, f.Game)
		existed, err := db.DeleteGame(id)
		if err != nil {
			return fmt.Errorf("delete game %s: %w", id, err)
		}
		if existed {
			logging.Info(logger, "removed stored result of failed game", logging.FieldGame, id)
		}
	}
	return nil
}

func emitGame(format report.Format, g model.GameResult) error {
	if format == report.FormatText {
		return report.WriteText(os.Stdout, report.GameDocument(g))
	}
	path, err := report.WriteGameFile(cfg.OutDir, format, g)
	if err != nil {
		return err
	}
	logging.Debug(logger, "report written", logging.FieldPath, path, logging.FieldGame, g.Name())
	return nil
}

func emitSeason(format report.Format, tr batch.TeamResult) error {
	if format == report.FormatText {
		return report.WriteText(os.Stdout, report.SeasonDocument(tr.Season))
	}
	path, err := report.WriteSeasonFile(cfg.OutDir, format, tr.Season)
	if err != nil {
		return err
	}
	logging.Info(logger, "season report written", logging.FieldPath, path,
		logging.FieldCount, len(tr.Games))
	return nil
}
