package cmd

import (
	"math"
	"sort"

	"github.com/JLammering/Volleyball-Stats/internal/loader"
	"github.com/JLammering/Volleyball-Stats/internal/model"
	"github.com/JLammering/Volleyball-Stats/internal/report"
)

// Payload types are the JSON shapes handed to the analysis model and returned
// by the MCP tools. Per-50 and share are nil when undefined (zero points).

type playerSeasonPayload struct {
	Name           string   `json:"name"`
	Games          int      `json:"games"`
	PlusMinus      int      `json:"plus_minus"`
	PointsPlayed   int      `json:"points_played"`
	SharePct       *float64 `json:"share_pct"`
	PlusMinusPer50 *float64 `json:"plus_minus_per_50"`
}

type seasonPayload struct {
	Season            string                `json:"season"`
	Team              string                `json:"team"`
	Games             int                   `json:"games"`
	TotalPointsPlayed int                   `json:"total_points_played"`
	Players           []playerSeasonPayload `json:"players"`
}

type intervalPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type playerSetPayload struct {
	Number         int               `json:"number"`
	Name           string            `json:"name"`
	PlusMinus      int               `json:"plus_minus"`
	PointsPlayed   int               `json:"points_played"`
	SharePct       *float64          `json:"share_pct"`
	PlusMinusPer50 *float64          `json:"plus_minus_per_50"`
	Intervals      []intervalPayload `json:"intervals"`
}

type setPayload struct {
	Number       int                `json:"number"`
	Result       string             `json:"result"`
	PointsPlayed int                `json:"points_played"`
	Players      []playerSetPayload `json:"players"`
}

type playerGamePayload struct {
	Number         int      `json:"number"`
	Name           string   `json:"name"`
	PlusMinus      int      `json:"plus_minus"`
	PointsPlayed   int      `json:"points_played"`
	SetsPlayed     int      `json:"sets_played"`
	SharePct       *float64 `json:"share_pct"`
	PlusMinusPer50 *float64 `json:"plus_minus_per_50"`
}

type gamePayload struct {
	ID                string              `json:"id"`
	Season            string              `json:"season"`
	Team              string              `json:"team"`
	Opponent          string              `json:"opponent"`
	Home              bool                `json:"home"`
	SetsWon           int                 `json:"sets_won"`
	SetsLost          int                 `json:"sets_lost"`
	TotalPointsPlayed int                 `json:"total_points_played"`
	Sets              []setPayload        `json:"sets"`
	Players           []playerGamePayload `json:"players"`
}

func optional(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}

func round1(v float64, err error) (float64, error) {
	return math.Round(v*10) / 10, err
}

func buildSeasonPayload(s model.SeasonTotals) seasonPayload {
	out := seasonPayload{
		Season:            loader.SeasonLabel(s.Season),
		Team:              s.Team,
		Games:             s.Games,
		TotalPointsPlayed: s.TotalPointsPlayed,
	}
	for _, p := range report.SeasonPlayers(s) {
		out.Players = append(out.Players, playerSeasonPayload{
			Name:           p.Name,
			Games:          p.Games,
			PlusMinus:      p.PlusMinus,
			PointsPlayed:   p.PointsPlayed,
			SharePct:       optional(round1(model.Share(p.PointsPlayed, s.TotalPointsPlayed))),
			PlusMinusPer50: optional(p.PlusMinusPer50()),
		})
	}
	return out
}

func buildGamePayload(g model.GameResult) gamePayload {
	won, lost := g.SetsWon()
	out := gamePayload{
		ID:                g.ID(),
		Season:            loader.SeasonLabel(g.Season),
		Team:              g.Team,
		Opponent:          g.Opponent(),
		Home:              g.IsHome,
		SetsWon:           won,
		SetsLost:          lost,
		TotalPointsPlayed: g.TotalPointsPlayed,
	}
	for _, n := range g.SetNumbers() {
		set := g.Sets[n]
		sp := setPayload{Number: n, Result: set.Result.Final.String(), PointsPlayed: set.Result.PointsPlayed()}
		nums := make([]int, 0, len(set.Players))
		for num := range set.Players {
			nums = append(nums, num)
		}
		sort.Ints(nums)
		for _, num := range nums {
			p := set.Players[num]
			pp := playerSetPayload{
				Number:         p.Number,
				Name:           p.Name,
				PlusMinus:      p.PlusMinus,
				PointsPlayed:   p.PointsPlayed,
				SharePct:       optional(round1(model.Share(p.PointsPlayed, sp.PointsPlayed))),
				PlusMinusPer50: optional(p.PlusMinusPer50()),
			}
			for _, iv := range p.Intervals {
				pp.Intervals = append(pp.Intervals, intervalPayload{Start: iv.Start.String(), End: iv.End.String()})
			}
			sp.Players = append(sp.Players, pp)
		}
		out.Sets = append(out.Sets, sp)
	}

	nums := make([]int, 0, len(g.Players))
	for num := range g.Players {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	for _, num := range nums {
		p := g.Players[num]
		out.Players = append(out.Players, playerGamePayload{
			Number:         p.Number,
			Name:           p.Name,
			PlusMinus:      p.PlusMinus,
			PointsPlayed:   p.PointsPlayed,
			SetsPlayed:     p.SetsPlayed,
			SharePct:       optional(round1(model.Share(p.PointsPlayed, g.TotalPointsPlayed))),
			PlusMinusPer50: optional(p.PlusMinusPer50()),
		})
	}
	return out
}
