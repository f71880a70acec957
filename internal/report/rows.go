// Package report turns computed games and seasons into formatted rows and
// renders them as terminal tables, PDF or HTML documents.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JLammering/Volleyball-Stats/internal/loader"
	"github.com/JLammering/Volleyball-Stats/internal/model"
)

const missing = "—"

var (
	setHeader    = []string{"PLAYER", "+/-", "POINTS", "SHARE", "+/- PER 50", "INTERVALS"}
	gameHeader   = []string{"PLAYER", "+/-", "POINTS", "SHARE", "+/- PER 50", "SETS"}
	seasonHeader = []string{"PLAYER", "GAMES", "+/-", "POINTS", "SHARE", "+/- PER 50"}
)

// Table is one captioned block of already formatted cells.
type Table struct {
	Caption string
	Header  []string
	Rows    [][]string
}

// Document is a titled sequence of tables, the unit every renderer consumes.
type Document struct {
	Title  []string
	Tables []Table
}

// Rows flattens the document into one ordered sequence of rows:
// the title, then per table its caption, header and body rows.
func (d Document) Rows() [][]string {
	out := [][]string{d.Title}
	for _, t := range d.Tables {
		if t.Caption != "" {
			out = append(out, []string{t.Caption})
		}
		out = append(out, t.Header)
		out = append(out, t.Rows...)
	}
	return out
}

// TitleText joins the title cells for use as a heading.
func (d Document) TitleText() string {
	return strings.Join(d.Title, " | ")
}

func formatShare(points, total int) string {
	v, err := model.Share(points, total)
	if err != nil {
		return missing
	}
	return fmt.Sprintf("%.0f%%", v)
}

func formatPer50(v float64, err error) string {
	if err != nil {
		return missing
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func playerLabel(number int, name string) string {
	return fmt.Sprintf("#%d %s", number, name)
}

// GameDocument tabulates one game: a table per set in play order, then the whole game.
func GameDocument(g model.GameResult) Document {
	doc := Document{Title: []string{g.Name(), loader.SeasonLabel(g.Season), g.Team}}

	for _, n := range g.SetNumbers() {
		set := g.Sets[n]
		total := set.Result.PointsPlayed()
		t := Table{
			Caption: fmt.Sprintf("Set %d. Result: %s. Points played: %d", n, set.Result.Final, total),
			Header:  setHeader,
		}
		for _, num := range sortedNumbers(set.Players) {
			p := set.Players[num]
			t.Rows = append(t.Rows, []string{
				playerLabel(p.Number, p.Name),
				strconv.Itoa(p.PlusMinus),
				strconv.Itoa(p.PointsPlayed),
				formatShare(p.PointsPlayed, total),
				formatPer50(p.PlusMinusPer50()),
				p.PlayedScores(),
			})
		}
		doc.Tables = append(doc.Tables, t)
	}

	whole := Table{
		Caption: fmt.Sprintf("Whole game. Points played: %d", g.TotalPointsPlayed),
		Header:  gameHeader,
	}
	nums := make([]int, 0, len(g.Players))
	for n := range g.Players {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, num := range nums {
		p := g.Players[num]
		whole.Rows = append(whole.Rows, []string{
			playerLabel(p.Number, p.Name),
			strconv.Itoa(p.PlusMinus),
			strconv.Itoa(p.PointsPlayed),
			formatShare(p.PointsPlayed, g.TotalPointsPlayed),
			formatPer50(p.PlusMinusPer50()),
			strconv.Itoa(p.SetsPlayed),
		})
	}
	doc.Tables = append(doc.Tables, whole)
	return doc
}

// SeasonPlayers returns the season's players sorted by points played
// descending, then by name.
func SeasonPlayers(s model.SeasonTotals) []model.PlayerSeasonStats {
	out := make([]model.PlayerSeasonStats, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsPlayed != out[j].PointsPlayed {
			return out[i].PointsPlayed > out[j].PointsPlayed
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SeasonDocument tabulates the per-player season totals.
func SeasonDocument(s model.SeasonTotals) Document {
	t := Table{
		Caption: fmt.Sprintf("Whole season. Games: %d. Points played: %d", s.Games, s.TotalPointsPlayed),
		Header:  seasonHeader,
	}
	for _, p := range SeasonPlayers(s) {
		t.Rows = append(t.Rows, []string{
			p.Name,
			strconv.Itoa(p.Games),
			strconv.Itoa(p.PlusMinus),
			strconv.Itoa(p.PointsPlayed),
			formatShare(p.PointsPlayed, s.TotalPointsPlayed),
			formatPer50(p.PlusMinusPer50()),
		})
	}
	return Document{
		Title:  []string{"Season", loader.SeasonLabel(s.Season), s.Team},
		Tables: []Table{t},
	}
}

// TrendDocument tabulates one player's game-by-game numbers.
func TrendDocument(season, team, name string, lines []model.PlayerGameLine) Document {
	t := Table{Header: []string{"GAME", "OPPONENT", "+/-", "POINTS", "SHARE", "+/- PER 50"}}
	for _, l := range lines {
		t.Rows = append(t.Rows, []string{
			l.GameID,
			l.Opponent,
			strconv.Itoa(l.PlusMinus),
			strconv.Itoa(l.PointsPlayed),
			formatShare(l.PointsPlayed, l.GamePoints),
			formatPer50(model.PlusMinusPer50(name, l.PlusMinus, l.PointsPlayed)),
		})
	}
	return Document{
		Title:  []string{name, loader.SeasonLabel(season), team},
		Tables: []Table{t},
	}
}

func sortedNumbers(m map[int]model.PlayerSetStats) []int {
	nums := make([]int, 0, len(m))
	for n := range m {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
