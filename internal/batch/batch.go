// Package batch runs the load -> aggregate pipeline over a data directory.
// Games are processed concurrently; a failing game is recorded and skipped
// without affecting the others.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JLammering/Volleyball-Stats/internal/aggregator"
	"github.com/JLammering/Volleyball-Stats/internal/loader"
	"github.com/JLammering/Volleyball-Stats/internal/logging"
	"github.com/JLammering/Volleyball-Stats/internal/metrics"
	"github.com/JLammering/Volleyball-Stats/internal/model"
)

// GameFailure is a game that was skipped, with the reason.
type GameFailure struct {
	Season string
	Team   string
	Game   string
	Err    error
}

func (f GameFailure) Error() string {
	return fmt.Sprintf("%s: %v", model.GameID(f.Season, f.Team, f.Game), f.Err)
}

func (f GameFailure) Unwrap() error { return f.Err }

// TeamResult is everything computed for one <season>/<team> directory.
type TeamResult struct {
	Dir      loader.TeamDir
	Games    []model.GameResult // sorted by game name
	Failures []GameFailure
	Season   model.SeasonTotals
}

// Runner processes team directories.
type Runner struct {
	TrackedTeam string
	Workers     int
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
}

// Run processes every team directory under root. Team-level problems (such as a
// missing default name file) are reported as a failure for that team only.
// The returned error is non-nil only when root cannot be read or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, root string) ([]TeamResult, error) {
	teams, err := loader.DiscoverTeams(root)
	if err != nil {
		return nil, err
	}
	results := make([]TeamResult, 0, len(teams))
	for _, td := range teams {
		res, err := r.RunTeam(ctx, td)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			logging.Error(r.Logger, "skipping team", err,
				logging.FieldSeason, td.Season, logging.FieldTeam, td.Team)
			r.Metrics.RecordFailure(td.Season, td.Team, err)
			res = TeamResult{
				Dir:      td,
				Failures: []GameFailure{{Season: td.Season, Team: td.Team, Game: "*", Err: err}},
				Season:   aggregator.ComputeSeasonStats(td.Season, td.Team, nil),
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// RunTeam loads and aggregates every game in one team directory.
func (r *Runner) RunTeam(ctx context.Context, td loader.TeamDir) (TeamResult, error) {
	defaults, err := loader.LoadTeamNames(td.Path)
	if err != nil {
		return TeamResult{}, err
	}
	files, err := loader.DiscoverGames(td.Path)
	if err != nil {
		return TeamResult{}, err
	}

	type outcome struct {
		game model.GameResult
		err  error
	}
	outcomes := make([]outcome, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			game, err := r.processGame(td, f, defaults)
			outcomes[i] = outcome{game: game, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TeamResult{}, err
	}

	res := TeamResult{Dir: td}
	for i, o := range outcomes {
		if o.err != nil {
			fail := GameFailure{Season: td.Season, Team: td.Team, Game: files[i].Name(), Err: o.err}
			logging.Warn(r.Logger, "skipping game",
				logging.FieldSeason, td.Season, logging.FieldTeam, td.Team,
				logging.FieldGame, files[i].Name(), logging.FieldError, o.err)
			r.Metrics.RecordFailure(td.Season, td.Team, o.err)
			res.Failures = append(res.Failures, fail)
			continue
		}
		res.Games = append(res.Games, o.game)
	}
	sort.Slice(res.Games, func(i, j int) bool { return res.Games[i].Name() < res.Games[j].Name() })
	res.Season = aggregator.ComputeSeasonStats(td.Season, td.Team, res.Games)

	logging.Info(r.Logger, "team processed",
		logging.FieldSeason, td.Season, logging.FieldTeam, td.Team,
		logging.FieldCount, len(res.Games), logging.FieldFailed, len(res.Failures))
	return res, nil
}

func (r *Runner) processGame(td loader.TeamDir, f loader.GameFiles, defaults model.NameLookup) (model.GameResult, error) {
	start := time.Now()
	raw, err := loader.LoadGame(td, f, r.TrackedTeam, defaults)
	if err != nil {
		return model.GameResult{}, fmt.Errorf("load: %w", err)
	}
	game, err := aggregator.Aggregate(raw)
	if err != nil {
		return model.GameResult{}, fmt.Errorf("aggregate: %w", err)
	}
	elapsed := time.Since(start)
	r.Metrics.RecordGame(raw, elapsed)
	logging.Info(r.Logger, "game processed",
		logging.FieldSeason, td.Season, logging.FieldTeam, td.Team,
		logging.FieldGame, f.Name(), logging.FieldDurationMS, elapsed.Milliseconds())
	return game, nil
}

func (r *Runner) workers() int {
	if r.Workers <= 0 {
		return 1
	}
	return r.Workers
}
