package aggregator

import "github.com/JLammering/Volleyball-Stats/internal/model"

// ComputeSeasonStats folds games into per-player season totals keyed by display name.
// Two players sharing a name are merged.
func ComputeSeasonStats(season, team string, games []model.GameResult) model.SeasonTotals {
	acc := model.SeasonTotals{Season: season, Team: team, Players: map[string]model.PlayerSeasonStats{}}
	for _, g := range games {
		acc = AddGame(acc, g)
	}
	return acc
}

// AddGame returns acc with g folded in. acc is not modified.
func AddGame(acc model.SeasonTotals, g model.GameResult) model.SeasonTotals {
	byName := make(map[string]model.PlayerSeasonStats, len(g.Players))
	for _, p := range g.Players {
		s := byName[p.Name]
		s.Name = p.Name
		s.Games = 1
		s.PlusMinus += p.PlusMinus
		s.PointsPlayed += p.PointsPlayed
		byName[p.Name] = s
	}
	single := model.SeasonTotals{
		Season:            g.Season,
		Team:              g.Team,
		Games:             1,
		TotalPointsPlayed: g.TotalPointsPlayed,
		Players:           byName,
	}
	return MergeSeasons(acc, single)
}

// MergeSeasons combines two partial season totals. It is commutative and associative,
// so games can be folded in any order or grouping.
func MergeSeasons(a, b model.SeasonTotals) model.SeasonTotals {
	out := model.SeasonTotals{
		Season:            a.Season,
		Team:              a.Team,
		Games:             a.Games + b.Games,
		TotalPointsPlayed: a.TotalPointsPlayed + b.TotalPointsPlayed,
		Players:           make(map[string]model.PlayerSeasonStats, len(a.Players)+len(b.Players)),
	}
	if out.Season == "" {
		out.Season = b.Season
	}
	if out.Team == "" {
		out.Team = b.Team
	}
	for _, side := range []map[string]model.PlayerSeasonStats{a.Players, b.Players} {
		for name, p := range side {
			s := out.Players[name]
			s.Name = name
			s.Games += p.Games
			s.PlusMinus += p.PlusMinus
			s.PointsPlayed += p.PointsPlayed
			out.Players[name] = s
		}
	}
	return out
}

// PlayerTrend lists the named player's per-game numbers in the order games are given.
// Games the player did not appear in are skipped.
func PlayerTrend(games []model.GameResult, name string) []model.PlayerGameLine {
	var lines []model.PlayerGameLine
	for _, g := range games {
		line := model.PlayerGameLine{GameID: g.ID(), Opponent: g.Opponent(), GamePoints: g.TotalPointsPlayed}
		found := false
		for _, p := range g.Players {
			if p.Name != name {
				continue
			}
			found = true
			line.PlusMinus += p.PlusMinus
			line.PointsPlayed += p.PointsPlayed
		}
		if found {
			lines = append(lines, line)
		}
	}
	return lines
}
