package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Scoring rules. A match has at most MaxSets sets; the last one is the tie-break
// played to TieBreakPoints, all others to SetWinningPoints.
const (
	MaxSets          = 5
	SetWinningPoints = 25
	TieBreakPoints   = 15
)

// ---- Set results ----

// SetResult is a validated final score of one set.
type SetResult struct {
	Number int
	Final  Score
}

// ValidateSetResult checks set number, tie and minimum-points rules and builds a SetResult.
// No two-point margin is enforced.
func ValidateSetResult(set, own, opponent int) (SetResult, error) {
	if set < 1 || set > MaxSets {
		return SetResult{}, &InvalidSetScoreError{Set: set, Reason: fmt.Sprintf("set number must be between 1 and %d", MaxSets)}
	}
	if own < 0 || opponent < 0 {
		return SetResult{}, &InvalidSetScoreError{Set: set, Reason: fmt.Sprintf("negative points %d:%d", own, opponent)}
	}
	if own == opponent {
		return SetResult{}, &InvalidSetScoreError{Set: set, Reason: fmt.Sprintf("points can't be equal: %d:%d", own, opponent)}
	}
	need := SetWinningPoints
	if set == MaxSets {
		need = TieBreakPoints
	}
	if own < need && opponent < need {
		return SetResult{}, &InvalidSetScoreError{Set: set, Reason: fmt.Sprintf("one side needs at least %d points: %d:%d", need, own, opponent)}
	}
	return SetResult{Number: set, Final: Score{Own: own, Opponent: opponent}}, nil
}

// PointsPlayed is the number of rallies in the set.
func (r SetResult) PointsPlayed() int { return r.Final.Total() }

// Won reports whether the tracked team took the set.
func (r SetResult) Won() bool { return r.Final.Own > r.Final.Opponent }

// ---- Substitutions ----

// SubstitutionKind tags how a position changed during a set.
type SubstitutionKind int

// Substitution kinds: the starter played the whole set, was replaced once,
// or was replaced and came back.
const (
	NoSubstitution SubstitutionKind = iota
	SingleSubstitution
	SubstitutionWithReturn
)

func (k SubstitutionKind) String() string {
	switch k {
	case NoSubstitution:
		return "none"
	case SingleSubstitution:
		return "single"
	case SubstitutionWithReturn:
		return "with-return"
	default:
		return "?"
	}
}

// Substitution is one position's history within a set. Change is meaningful for
// SingleSubstitution and SubstitutionWithReturn; ChangeBack only for SubstitutionWithReturn.
type Substitution struct {
	Set        int
	Outgoing   int
	Incoming   int
	Kind       SubstitutionKind
	Change     Score
	ChangeBack Score
}

// NewSubstitution classifies a raw substitution row. Empty score strings mean absent.
func NewSubstitution(set, outgoing, incoming int, change, changeBack string) (Substitution, error) {
	sub := Substitution{Set: set, Outgoing: outgoing, Incoming: incoming}
	change, changeBack = strings.TrimSpace(change), strings.TrimSpace(changeBack)

	switch {
	case change == "" && changeBack == "":
		sub.Kind = NoSubstitution
		return sub, nil
	case change == "":
		return Substitution{}, fmt.Errorf("set %d player %d: return point %q without change point", set, outgoing, changeBack)
	}

	c, err := ParseScore(change)
	if err != nil {
		return Substitution{}, fmt.Errorf("set %d player %d change: %w", set, outgoing, err)
	}
	sub.Change = c
	sub.Kind = SingleSubstitution
	if changeBack == "" {
		return sub, nil
	}

	b, err := ParseScore(changeBack)
	if err != nil {
		return Substitution{}, fmt.Errorf("set %d player %d change back: %w", set, outgoing, err)
	}
	if !b.AtOrAfter(c) {
		return Substitution{}, fmt.Errorf("set %d player %d: %w", set, outgoing, &NonMonotonicScoreError{Start: c, End: b})
	}
	sub.ChangeBack = b
	sub.Kind = SubstitutionWithReturn
	return sub, nil
}

// ---- Names ----

// NameLookup maps jersey numbers to display names.
type NameLookup map[int]string

// Merge returns a new lookup with override entries taking precedence over l.
func (l NameLookup) Merge(override NameLookup) NameLookup {
	out := make(NameLookup, len(l)+len(override))
	for n, name := range l {
		out[n] = name
	}
	for n, name := range override {
		out[n] = name
	}
	return out
}

// Resolve returns the display name for number.
func (l NameLookup) Resolve(number int) (string, error) {
	name, ok := l[number]
	if !ok {
		return "", &UnknownPlayerNumberError{Number: number}
	}
	return name, nil
}

// ---- Intervals and per-set stats ----

// PlayerInterval is one continuous stretch on court at one position.
type PlayerInterval struct {
	Number int
	Name   string
	Start  Score
	End    Score
}

// PlusMinus is the point differential accrued during the interval.
func (iv PlayerInterval) PlusMinus() int { return iv.End.Sub(iv.Start).Diff() }

// PointsPlayed is the number of rallies during the interval.
func (iv PlayerInterval) PointsPlayed() int { return iv.End.Sub(iv.Start).Total() }

func (iv PlayerInterval) String() string {
	return fmt.Sprintf("%s-%s", iv.Start, iv.End)
}

// PlayerSetStats holds one player's numbers for one set.
type PlayerSetStats struct {
	Number       int
	Name         string
	PlusMinus    int
	PointsPlayed int
	Intervals    []PlayerInterval
}

// PlayedScores renders the intervals as "0:0-10:8 & 20:15-25:20".
func (s PlayerSetStats) PlayedScores() string {
	parts := make([]string, len(s.Intervals))
	for i, iv := range s.Intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " & ")
}

// PlusMinusPer50 normalises plus-minus to 50 points played.
func (s PlayerSetStats) PlusMinusPer50() (float64, error) {
	return PlusMinusPer50(s.Name, s.PlusMinus, s.PointsPlayed)
}

// SetOutcome is a validated set together with its per-player stats.
type SetOutcome struct {
	Result  SetResult
	Players map[int]PlayerSetStats
}

// ---- Games ----

// PlayerGameStats holds one player's numbers summed over a game.
type PlayerGameStats struct {
	Number       int
	Name         string
	PlusMinus    int
	PointsPlayed int
	SetsPlayed   int
}

// PlusMinusPer50 normalises plus-minus to 50 points played.
func (s PlayerGameStats) PlusMinusPer50() (float64, error) {
	return PlusMinusPer50(s.Name, s.PlusMinus, s.PointsPlayed)
}

// GameResult is one game seen from the tracked team.
type GameResult struct {
	Season   string
	Team     string
	HomeTeam string
	AwayTeam string
	IsHome   bool

	Sets              map[int]SetOutcome
	Players           map[int]PlayerGameStats
	TotalPointsPlayed int
}

// Name is the "<home>-<away>" pairing used in file names.
func (g GameResult) Name() string { return g.HomeTeam + "-" + g.AwayTeam }

// ID uniquely identifies a game across seasons and teams.
func (g GameResult) ID() string { return GameID(g.Season, g.Team, g.Name()) }

// Opponent is the other team's code.
func (g GameResult) Opponent() string {
	if g.IsHome {
		return g.AwayTeam
	}
	return g.HomeTeam
}

// SetNumbers returns the set numbers in play order.
func (g GameResult) SetNumbers() []int {
	nums := make([]int, 0, len(g.Sets))
	for n := range g.Sets {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// SetsWon counts sets won and lost by the tracked team.
func (g GameResult) SetsWon() (won, lost int) {
	for _, s := range g.Sets {
		if s.Result.Won() {
			won++
		} else {
			lost++
		}
	}
	return won, lost
}

// GameID joins season, team and game name.
func GameID(season, team, game string) string {
	return season + "/" + team + "/" + game
}

// ---- Season ----

// PlayerSeasonStats holds one player's numbers summed over a season.
// Players are identified by display name across games.
type PlayerSeasonStats struct {
	Name         string
	Games        int
	PlusMinus    int
	PointsPlayed int
}

// PlusMinusPer50 normalises plus-minus to 50 points played.
func (s PlayerSeasonStats) PlusMinusPer50() (float64, error) {
	return PlusMinusPer50(s.Name, s.PlusMinus, s.PointsPlayed)
}

// SeasonTotals are the per-player totals of one team in one season.
type SeasonTotals struct {
	Season            string
	Team              string
	Games             int
	TotalPointsPlayed int
	Players           map[string]PlayerSeasonStats
}

// ---- Derived metrics ----

// Share is points as a percentage of total.
func Share(points, total int) (float64, error) {
	if total == 0 {
		return 0, &DivisionByZeroPointsError{}
	}
	return float64(points) / float64(total) * 100, nil
}

// PlusMinusPer50 is plusMinus per 50 points played, rounded to one decimal.
func PlusMinusPer50(name string, plusMinus, pointsPlayed int) (float64, error) {
	if pointsPlayed == 0 {
		return 0, &DivisionByZeroPointsError{Name: name}
	}
	return math.Round(float64(plusMinus)/float64(pointsPlayed)*50*10) / 10, nil
}

// ---- Raw input ----

// RawGame is one game's ingested data, already oriented to the tracked team.
type RawGame struct {
	Season        string
	Team          string
	HomeTeam      string
	AwayTeam      string
	IsHome        bool
	Sets          []SetResult
	Substitutions []Substitution
	Names         NameLookup
}

// Name is the "<home>-<away>" pairing used in file names.
func (r RawGame) Name() string { return r.HomeTeam + "-" + r.AwayTeam }

// PlayerGameLine is one player's numbers in one game, for trends.
type PlayerGameLine struct {
	GameID       string
	Opponent     string
	PlusMinus    int
	PointsPlayed int
	GamePoints   int
}

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	ID          string
	Season      string
	Team        string
	HomeTeam    string
	AwayTeam    string
	IsHome      bool
	SetsWon     int
	SetsLost    int
	TotalPoints int
	ProcessedAt string
}

// Opponent is the other team's code.
func (s GameSummary) Opponent() string {
	if s.IsHome {
		return s.AwayTeam
	}
	return s.HomeTeam
}

// SeasonRef names one stored team season.
type SeasonRef struct {
	Season string
	Team   string
	Games  int
}
