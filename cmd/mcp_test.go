package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JLammering/Volleyball-Stats/internal/model"
	"github.com/JLammering/Volleyball-Stats/internal/storage"
)

func sc(own, opp int) model.Score { return model.Score{Own: own, Opponent: opp} }

func storedGame(home, away string, isHome bool) model.GameResult {
	return model.GameResult{
		Season:   "2023_24",
		Team:     "H1",
		HomeTeam: home,
		AwayTeam: away,
		IsHome:   isHome,
		Sets: map[int]model.SetOutcome{
			1: {
				Result: model.SetResult{Number: 1, Final: sc(25, 20)},
				Players: map[int]model.PlayerSetStats{
					7: {Number: 7, Name: "Anna", PlusMinus: 2, PointsPlayed: 28, Intervals: []model.PlayerInterval{
						{Number: 7, Name: "Anna", Start: sc(0, 0), End: sc(10, 8)},
						{Number: 7, Name: "Anna", Start: sc(20, 15), End: sc(25, 20)},
					}},
					9: {Number: 9, Name: "Bea", PlusMinus: 3, PointsPlayed: 17, Intervals: []model.PlayerInterval{
						{Number: 9, Name: "Bea", Start: sc(10, 8), End: sc(20, 15)},
					}},
				},
			},
		},
		Players: map[int]model.PlayerGameStats{
			7: {Number: 7, Name: "Anna", PlusMinus: 2, PointsPlayed: 28, SetsPlayed: 1},
			9: {Number: 9, Name: "Bea", PlusMinus: 3, PointsPlayed: 17, SetsPlayed: 1},
		},
		TotalPointsPlayed: 45,
	}
}

func openTestDB(t *testing.T, games ...model.GameResult) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	for _, g := range games {
		if err := db.SaveGame(g); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}
	return db
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestListGamesTool(t *testing.T) {
	db := openTestDB(t, storedGame("TSC", "MTV", true), storedGame("SCB", "TSC", false))

	res, _, err := listGamesHandler(db)(context.Background(), nil, ListGamesArgs{Season: "2023_24"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var out struct {
		Games []gameListEntry `json:"games"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Games) != 2 {
		t.Fatalf("games = %d, want 2", len(out.Games))
	}
	for _, g := range out.Games {
		if g.Season != "2023/24" || g.Sets != "1:0" {
			t.Errorf("unexpected entry %+v", g)
		}
	}
}

func TestGameStatsTool(t *testing.T) {
	db := openTestDB(t, storedGame("TSC", "MTV", true))

	res, _, err := gameStatsHandler(db)(context.Background(), nil, GameStatsArgs{Game: "2023_24/H1/TSC"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var g gamePayload
	if err := json.Unmarshal([]byte(resultText(t, res)), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Opponent != "MTV" || len(g.Sets) != 1 {
		t.Fatalf("unexpected payload %+v", g)
	}
	anna := g.Sets[0].Players[0]
	if anna.Name != "Anna" || len(anna.Intervals) != 2 || anna.Intervals[1].Start != "20:15" {
		t.Errorf("Anna set payload = %+v", anna)
	}
	if anna.PlusMinusPer50 == nil || *anna.PlusMinusPer50 != 3.6 {
		t.Errorf("Anna per 50 = %v, want 3.6", anna.PlusMinusPer50)
	}
	if anna.SharePct == nil || *anna.SharePct != 62.2 {
		t.Errorf("Anna set share = %v, want 62.2", anna.SharePct)
	}

	missing, _, _ := gameStatsHandler(db)(context.Background(), nil, GameStatsArgs{Game: "1999"})
	if !missing.IsError || !strings.Contains(resultText(t, missing), "no game found") {
		t.Errorf("expected not-found tool error, got %+v", missing)
	}

	empty, _, _ := gameStatsHandler(db)(context.Background(), nil, GameStatsArgs{})
	if !empty.IsError {
		t.Error("expected error for empty game argument")
	}
}

func TestSeasonStatsTool(t *testing.T) {
	db := openTestDB(t, storedGame("TSC", "MTV", true), storedGame("SCB", "TSC", false))

	res, _, err := seasonStatsHandler(db)(context.Background(), nil, SeasonStatsArgs{Season: "2023_24", Team: "H1"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var s seasonPayload
	if err := json.Unmarshal([]byte(resultText(t, res)), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Games != 2 || s.TotalPointsPlayed != 90 {
		t.Errorf("season = %d games / %d points, want 2 / 90", s.Games, s.TotalPointsPlayed)
	}
	if len(s.Players) != 2 || s.Players[0].Name != "Anna" || s.Players[0].PointsPlayed != 56 {
		t.Fatalf("players = %+v", s.Players)
	}
	if s.Players[0].SharePct == nil || *s.Players[0].SharePct != 62.2 {
		t.Errorf("Anna share = %v, want 62.2", s.Players[0].SharePct)
	}

	none, _, _ := seasonStatsHandler(db)(context.Background(), nil, SeasonStatsArgs{Season: "2020_21", Team: "H1"})
	if !none.IsError {
		t.Error("expected error for season without games")
	}
}

func TestSeasonPayloadZeroPoints(t *testing.T) {
	s := model.SeasonTotals{
		Season: "2023_24", Team: "H1", Games: 1, TotalPointsPlayed: 50,
		Players: map[string]model.PlayerSeasonStats{"Dana": {Name: "Dana", Games: 1}},
	}
	p := buildSeasonPayload(s)
	if p.Players[0].PlusMinusPer50 != nil {
		t.Errorf("per 50 for zero points = %v, want nil", *p.Players[0].PlusMinusPer50)
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"plus_minus_per_50":null`) {
		t.Errorf("json = %s", b)
	}
}

func TestNewMCPServer(t *testing.T) {
	if newMCPServer(openTestDB(t)) == nil {
		t.Fatal("expected server")
	}
}
