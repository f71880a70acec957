package aggregator

import (
	"strings"
	"testing"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

var names = model.NameLookup{
	1: "Anna", 4: "Bea", 7: "Carla", 9: "Dana", 11: "Eva", 12: "Fenja",
}

func mustSet(t *testing.T, n, own, opp int) model.SetResult {
	t.Helper()
	s, err := model.ValidateSetResult(n, own, opp)
	if err != nil {
		t.Fatalf("ValidateSetResult(%d, %d, %d): %v", n, own, opp, err)
	}
	return s
}

func mustSub(t *testing.T, set, out, in int, change, back string) model.Substitution {
	t.Helper()
	s, err := model.NewSubstitution(set, out, in, change, back)
	if err != nil {
		t.Fatalf("NewSubstitution: %v", err)
	}
	return s
}

func sumPoints(ivs []model.PlayerInterval) int {
	total := 0
	for _, iv := range ivs {
		total += iv.PointsPlayed()
	}
	return total
}

// ---- Interval reconstruction ----

func TestReconstruct_NoSubstitution(t *testing.T) {
	set := mustSet(t, 1, 25, 23)
	got, err := ReconstructIntervals(set, mustSub(t, 1, 4, 0, "", ""), names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || len(got[4]) != 1 {
		t.Fatalf("expected one interval for #4, got %+v", got)
	}
	iv := got[4][0]
	if iv.Start != (model.Score{}) || iv.End != set.Final {
		t.Errorf("interval = %s, want 0:0-25:23", iv)
	}
	if iv.Name != "Bea" {
		t.Errorf("name = %q, want Bea", iv.Name)
	}
}

func TestReconstruct_SingleSubstitution(t *testing.T) {
	set := mustSet(t, 2, 18, 25)
	got, err := ReconstructIntervals(set, mustSub(t, 2, 1, 12, "9:14", ""), names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := got[1][0].String(); s != "0:0-9:14" {
		t.Errorf("#1 interval = %s, want 0:0-9:14", s)
	}
	if s := got[12][0].String(); s != "9:14-18:25" {
		t.Errorf("#12 interval = %s, want 9:14-18:25", s)
	}
}

// TestConcreteScenario: 25:20 set, #7 out at 10:8 for #9, back at 20:15.
func TestConcreteScenario(t *testing.T) {
	set := mustSet(t, 1, 25, 20)
	outcome, err := ComputeSet(set, []model.Substitution{mustSub(t, 1, 7, 9, "10:8", "20:15")}, names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p7 := outcome.Players[7]
	if p7.PlayedScores() != "0:0-10:8 & 20:15-25:20" {
		t.Errorf("#7 intervals = %q", p7.PlayedScores())
	}
	if p7.PlusMinus != 2 {
		t.Errorf("#7 plus-minus = %d, want 2", p7.PlusMinus)
	}
	if p7.PointsPlayed != 28 {
		t.Errorf("#7 points played = %d, want 28", p7.PointsPlayed)
	}

	p9 := outcome.Players[9]
	if p9.PlayedScores() != "10:8-20:15" {
		t.Errorf("#9 intervals = %q", p9.PlayedScores())
	}
	if p9.PlusMinus != 3 {
		t.Errorf("#9 plus-minus = %d, want 3", p9.PlusMinus)
	}
	if p9.PointsPlayed != 17 {
		t.Errorf("#9 points played = %d, want 17", p9.PointsPlayed)
	}

	if total := p7.PointsPlayed + p9.PointsPlayed; total != set.PointsPlayed() {
		t.Errorf("position points = %d, want set total %d", total, set.PointsPlayed())
	}
}

func TestPartitionLaw(t *testing.T) {
	cases := []struct {
		name         string
		set          int
		own, opp     int
		change, back string
	}{
		{"no sub", 1, 25, 12, "", ""},
		{"single", 2, 23, 25, "3:1", ""},
		{"return", 3, 27, 25, "12:12", "24:24"},
		{"sub at start", 4, 25, 10, "0:0", ""},
		{"sub at end", 5, 15, 13, "15:13", ""},
		{"immediate return", 1, 25, 19, "5:5", "5:5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := mustSet(t, tc.set, tc.own, tc.opp)
			ivs, err := ReconstructIntervals(set, mustSub(t, tc.set, 7, 9, tc.change, tc.back), names)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			total := 0
			for _, p := range ivs {
				total += sumPoints(p)
			}
			if total != set.PointsPlayed() {
				t.Errorf("position points = %d, want %d", total, set.PointsPlayed())
			}
		})
	}
}

func TestReconstruct_UnknownPlayer(t *testing.T) {
	set := mustSet(t, 1, 25, 20)
	_, err := ReconstructIntervals(set, mustSub(t, 1, 7, 99, "3:3", ""), names)
	u, ok := model.AsUnknownPlayerNumber(err)
	if !ok {
		t.Fatalf("expected UnknownPlayerNumberError, got %v", err)
	}
	if u.Number != 99 {
		t.Errorf("number = %d, want 99", u.Number)
	}
}

func TestReconstruct_StarterOnlyIgnoresIncomingName(t *testing.T) {
	set := mustSet(t, 1, 25, 20)
	if _, err := ReconstructIntervals(set, mustSub(t, 1, 7, 99, "", ""), names); err != nil {
		t.Errorf("unexpected error for unused incoming number: %v", err)
	}
}

// ---- Set aggregation ----

func TestComputeSetStats_NonMonotonic(t *testing.T) {
	// Change point recorded after the final score.
	set := mustSet(t, 1, 25, 20)
	_, err := ComputeSet(set, []model.Substitution{mustSub(t, 1, 7, 9, "26:20", "")}, names)
	if _, ok := model.AsNonMonotonicScore(err); !ok {
		t.Fatalf("expected NonMonotonicScoreError, got %v", err)
	}
}

func TestBuildSetIntervals_UnionAcrossPositions(t *testing.T) {
	// #9 covers #7's position, later #7 comes back for #11 at another position.
	set := mustSet(t, 1, 25, 20)
	subs := []model.Substitution{
		mustSub(t, 1, 7, 9, "10:8", ""),
		mustSub(t, 1, 11, 7, "20:15", ""),
		mustSub(t, 1, 1, 0, "", ""),
	}
	ivs, err := BuildSetIntervals(set, subs, names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ivs[7]) != 2 {
		t.Fatalf("#7 intervals = %v, want 2", ivs[7])
	}
	if ivs[7][0].String() != "0:0-10:8" || ivs[7][1].String() != "20:15-25:20" {
		t.Errorf("#7 intervals out of order: %v", ivs[7])
	}
	stats, err := ComputeSetStats(ivs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats[7].PointsPlayed != 28 || stats[7].PlusMinus != 2 {
		t.Errorf("#7 = %+v", stats[7])
	}
	if stats[1].PointsPlayed != 45 || stats[1].PlusMinus != 5 {
		t.Errorf("#1 = %+v", stats[1])
	}
}

func TestComputeSet_OverlappingIntervals(t *testing.T) {
	set := mustSet(t, 1, 25, 20)
	tests := []struct {
		name string
		subs []model.Substitution
	}{
		{"duplicated position", []model.Substitution{
			mustSub(t, 1, 7, 0, "", ""),
			mustSub(t, 1, 7, 0, "", ""),
		}},
		{"back in before leaving", []model.Substitution{
			mustSub(t, 1, 7, 9, "10:8", ""),
			mustSub(t, 1, 11, 7, "5:5", ""),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSet(set, tt.subs, names)
			ov, ok := model.AsOverlappingInterval(err)
			if !ok {
				t.Fatalf("expected OverlappingIntervalError, got %v", err)
			}
			if ov.Number != 7 {
				t.Errorf("Number = %d, want 7", ov.Number)
			}
		})
	}
}

func TestComputeSetStats_TouchingIntervals(t *testing.T) {
	ivs := map[int][]model.PlayerInterval{
		7: {
			{Number: 7, Start: model.Score{Own: 20, Opponent: 15}, End: model.Score{Own: 25, Opponent: 20}},
			{Number: 7, End: model.Score{Own: 10, Opponent: 8}},
			{Number: 7, Start: model.Score{Own: 10, Opponent: 8}, End: model.Score{Own: 12, Opponent: 9}},
		},
	}
	stats, err := ComputeSetStats(ivs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats[7].PointsPlayed != 31 {
		t.Errorf("PointsPlayed = %d, want 31", stats[7].PointsPlayed)
	}
	if stats[7].Intervals[0].String() != "0:0-10:8" {
		t.Errorf("intervals not sorted: %v", stats[7].Intervals)
	}
}

func TestMergeIntervals_DoesNotMutateParts(t *testing.T) {
	a := map[int][]model.PlayerInterval{7: {{Number: 7, End: model.Score{Own: 1}}}}
	b := map[int][]model.PlayerInterval{7: {{Number: 7, Start: model.Score{Own: 2}, End: model.Score{Own: 3}}}}
	merged := MergeIntervals(a, b)
	if len(merged[7]) != 2 {
		t.Fatalf("merged = %v", merged)
	}
	if len(a[7]) != 1 || len(b[7]) != 1 {
		t.Error("inputs were modified")
	}
}

// ---- Game aggregation ----

func testRawGame(t *testing.T) *model.RawGame {
	t.Helper()
	return &model.RawGame{
		Season: "2023_24", Team: "H1", HomeTeam: "TSC", AwayTeam: "MTV", IsHome: true,
		Sets: []model.SetResult{
			mustSet(t, 1, 25, 20),
			mustSet(t, 2, 22, 25),
			mustSet(t, 3, 25, 18),
		},
		Substitutions: []model.Substitution{
			mustSub(t, 1, 7, 9, "10:8", "20:15"),
			mustSub(t, 1, 1, 0, "", ""),
			mustSub(t, 2, 7, 0, "", ""),
			mustSub(t, 2, 1, 12, "11:11", ""),
			mustSub(t, 3, 9, 7, "5:2", ""),
			mustSub(t, 3, 1, 0, "", ""),
		},
		Names: names,
	}
}

func TestAggregate_Additivity(t *testing.T) {
	game, err := Aggregate(testRawGame(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for num, gs := range game.Players {
		pm, pp, sets := 0, 0, 0
		for _, set := range game.Sets {
			if ps, ok := set.Players[num]; ok {
				pm += ps.PlusMinus
				pp += ps.PointsPlayed
				sets++
			}
		}
		if gs.PlusMinus != pm || gs.PointsPlayed != pp || gs.SetsPlayed != sets {
			t.Errorf("#%d game=%+v, sum of sets pm=%d pp=%d sets=%d", num, gs, pm, pp, sets)
		}
	}

	if game.TotalPointsPlayed != 45+47+43 {
		t.Errorf("total points = %d, want %d", game.TotalPointsPlayed, 45+47+43)
	}
	if game.Players[7].Name != "Carla" {
		t.Errorf("#7 name = %q", game.Players[7].Name)
	}
	if game.ID() != "2023_24/H1/TSC-MTV" {
		t.Errorf("id = %q", game.ID())
	}
}

func TestAggregate_UnknownSet(t *testing.T) {
	raw := testRawGame(t)
	raw.Substitutions = append(raw.Substitutions, mustSub(t, 4, 1, 0, "", ""))
	if _, err := Aggregate(raw); err == nil {
		t.Fatal("expected error for substitution in missing set")
	}
}

func TestAggregate_DuplicateSet(t *testing.T) {
	raw := testRawGame(t)
	raw.Sets = append(raw.Sets, mustSet(t, 1, 25, 3))
	if _, err := Aggregate(raw); err == nil {
		t.Fatal("expected error for duplicated set")
	}
}

func TestAggregate_WrapsUnknownPlayer(t *testing.T) {
	raw := testRawGame(t)
	raw.Names = model.NameLookup{7: "Carla"}
	_, err := Aggregate(raw)
	if _, ok := model.AsUnknownPlayerNumber(err); !ok {
		t.Fatalf("expected UnknownPlayerNumberError through wrapping, got %v", err)
	}
}

func TestAggregate_ReportsLowestFailingSet(t *testing.T) {
	raw := testRawGame(t)
	raw.Substitutions = append(raw.Substitutions,
		mustSub(t, 3, 50, 0, "", ""),
		mustSub(t, 2, 60, 0, "", ""),
	)
	for i := 0; i < 20; i++ {
		_, err := Aggregate(raw)
		if err == nil || !strings.HasPrefix(err.Error(), "set 2:") {
			t.Fatalf("run %d: err = %v, want set 2 failure", i, err)
		}
	}
}

func TestAggregate_Nil(t *testing.T) {
	if _, err := Aggregate(nil); err == nil {
		t.Fatal("expected error for nil input")
	}
}
