package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JLammering/Volleyball-Stats/internal/loader"
	"github.com/JLammering/Volleyball-Stats/internal/logging"
	"github.com/JLammering/Volleyball-Stats/internal/metrics"
	"github.com/JLammering/Volleyball-Stats/internal/model"
)

const subHeader = "Set;Player;Player New;Change;Change Back\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// makeData builds root/2023_24/H1 with two good games and one invalid game,
// plus root/2023_24/D2 without a default name file.
func makeData(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "2023_24", "H1")
	writeFile(t, filepath.Join(dir, loader.DefaultNamesFile), "Number;Name\n7;Carla\n9;Dana\n1;Anna\n")

	writeFile(t, filepath.Join(dir, "TSC-MTV-game.csv"), "Set;Home;Away\n1;25;20\n")
	writeFile(t, filepath.Join(dir, "TSC-MTV-players.csv"), subHeader+"1;7;9;10:8;20:15\n1;1;;;\n")

	// Away game, tracked team won 25:21.
	writeFile(t, filepath.Join(dir, "SCB-TSC-game.csv"), "Set;Home;Away\n1;21;25\n")
	writeFile(t, filepath.Join(dir, "SCB-TSC-players.csv"), subHeader+"1;7;;;\n1;1;9;12:12;\n")

	// Second set below 25 points.
	writeFile(t, filepath.Join(dir, "TSC-VfL-game.csv"), "Set;Home;Away\n1;25;10\n2;20;18\n")
	writeFile(t, filepath.Join(dir, "TSC-VfL-players.csv"), subHeader+"1;7;;;\n")

	if err := os.MkdirAll(filepath.Join(root, "2023_24", "D2"), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRun_IsolatesFailures(t *testing.T) {
	root := makeData(t)
	var logs bytes.Buffer
	rec := metrics.NewRecorder()
	r := &Runner{TrackedTeam: "TSC", Workers: 4, Logger: logging.NewLogger(&logs, "info"), Metrics: rec}

	results, err := r.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	d2 := results[0]
	if d2.Dir.Team != "D2" || len(d2.Failures) != 1 || len(d2.Games) != 0 {
		t.Errorf("D2 = %+v", d2)
	}

	h1 := results[1]
	if len(h1.Games) != 2 {
		t.Fatalf("H1 games = %d, want 2", len(h1.Games))
	}
	if len(h1.Failures) != 1 || h1.Failures[0].Game != "TSC-VfL" {
		t.Fatalf("H1 failures = %+v", h1.Failures)
	}
	if _, ok := model.AsInvalidSetScore(h1.Failures[0]); !ok {
		t.Errorf("failure does not unwrap to InvalidSetScoreError: %v", h1.Failures[0])
	}

	// Games sorted by name.
	if h1.Games[0].Name() != "SCB-TSC" || h1.Games[1].Name() != "TSC-MTV" {
		t.Errorf("game order: %s, %s", h1.Games[0].Name(), h1.Games[1].Name())
	}

	// Away orientation: Anna played 0:0-12:12 and Dana 12:12-25:21.
	away := h1.Games[0]
	if away.IsHome || away.Players[9].PlusMinus != 4 || away.Players[9].PointsPlayed != 22 {
		t.Errorf("away game players = %+v", away.Players)
	}

	season := h1.Season
	if season.Games != 2 || season.TotalPointsPlayed != 45+46 {
		t.Errorf("season = %+v", season)
	}
	if carla := season.Players["Carla"]; carla.PointsPlayed != 28+46 || carla.PlusMinus != 2+4 {
		t.Errorf("Carla = %+v", carla)
	}

	n, err := testutil.GatherAndCount(rec.Registry(), "vbstats_games_processed_total", "vbstats_games_failed_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	// one processed series (H1) and two failure series (H1 invalid score, D2 missing names)
	if n != 3 {
		t.Errorf("metric series = %d, want 3", n)
	}
	if !strings.Contains(logs.String(), "game=TSC-VfL") {
		t.Errorf("failure not logged:\n%s", logs.String())
	}
}

func TestRunTeam_SingleWorkerMatchesParallel(t *testing.T) {
	root := makeData(t)
	td := loader.TeamDir{Season: "2023_24", Team: "H1", Path: filepath.Join(root, "2023_24", "H1")}

	serial, err := (&Runner{TrackedTeam: "TSC", Workers: 1}).RunTeam(context.Background(), td)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := (&Runner{TrackedTeam: "TSC", Workers: 8}).RunTeam(context.Background(), td)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if serial.Season.TotalPointsPlayed != parallel.Season.TotalPointsPlayed {
		t.Errorf("totals differ: %d vs %d", serial.Season.TotalPointsPlayed, parallel.Season.TotalPointsPlayed)
	}
	for name, s := range serial.Season.Players {
		if parallel.Season.Players[name] != s {
			t.Errorf("%s: serial %+v, parallel %+v", name, s, parallel.Season.Players[name])
		}
	}
}

func TestRunTeam_CancelledContext(t *testing.T) {
	root := makeData(t)
	td := loader.TeamDir{Season: "2023_24", Team: "H1", Path: filepath.Join(root, "2023_24", "H1")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&Runner{TrackedTeam: "TSC"}).RunTeam(ctx, td); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
