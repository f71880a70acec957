package aggregator

import (
	"fmt"
	"sort"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

// Aggregate computes per-set and per-game player stats from a RawGame.
func Aggregate(raw *model.RawGame) (model.GameResult, error) {
	if raw == nil {
		return model.GameResult{}, fmt.Errorf("nil RawGame")
	}

	results := make(map[int]model.SetResult, len(raw.Sets))
	for _, s := range raw.Sets {
		if _, dup := results[s.Number]; dup {
			return model.GameResult{}, fmt.Errorf("set %d listed twice", s.Number)
		}
		results[s.Number] = s
	}

	subsBySet := make(map[int][]model.Substitution)
	for _, sub := range raw.Substitutions {
		if _, ok := results[sub.Set]; !ok {
			return model.GameResult{}, fmt.Errorf("substitution for player %d references unknown set %d", sub.Outgoing, sub.Set)
		}
		subsBySet[sub.Set] = append(subsBySet[sub.Set], sub)
	}

	numbers := make([]int, 0, len(results))
	for n := range results {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	sets := make(map[int]model.SetOutcome, len(results))
	for _, n := range numbers {
		outcome, err := ComputeSet(results[n], subsBySet[n], raw.Names)
		if err != nil {
			return model.GameResult{}, fmt.Errorf("set %d: %w", n, err)
		}
		sets[n] = outcome
	}

	game := ComputeGameStats(sets)
	game.Season = raw.Season
	game.Team = raw.Team
	game.HomeTeam = raw.HomeTeam
	game.AwayTeam = raw.AwayTeam
	game.IsHome = raw.IsHome
	return game, nil
}

// ---- Interval reconstruction ----

// ReconstructIntervals expands one position's substitution into playing intervals
// keyed by player number. The intervals of one position partition [0:0, final].
func ReconstructIntervals(set model.SetResult, sub model.Substitution, names model.NameLookup) (map[int][]model.PlayerInterval, error) {
	outName, err := names.Resolve(sub.Outgoing)
	if err != nil {
		return nil, err
	}
	out := func(start, end model.Score) model.PlayerInterval {
		return model.PlayerInterval{Number: sub.Outgoing, Name: outName, Start: start, End: end}
	}
	var zero model.Score

	if sub.Kind == model.NoSubstitution {
		return map[int][]model.PlayerInterval{
			sub.Outgoing: {out(zero, set.Final)},
		}, nil
	}

	inName, err := names.Resolve(sub.Incoming)
	if err != nil {
		return nil, err
	}
	in := func(start, end model.Score) model.PlayerInterval {
		return model.PlayerInterval{Number: sub.Incoming, Name: inName, Start: start, End: end}
	}

	switch sub.Kind {
	case model.SingleSubstitution:
		return MergeIntervals(
			map[int][]model.PlayerInterval{sub.Outgoing: {out(zero, sub.Change)}},
			map[int][]model.PlayerInterval{sub.Incoming: {in(sub.Change, set.Final)}},
		), nil
	case model.SubstitutionWithReturn:
		return MergeIntervals(
			map[int][]model.PlayerInterval{sub.Outgoing: {out(zero, sub.Change), out(sub.ChangeBack, set.Final)}},
			map[int][]model.PlayerInterval{sub.Incoming: {in(sub.Change, sub.ChangeBack)}},
		), nil
	default:
		return nil, fmt.Errorf("unknown substitution kind %d", sub.Kind)
	}
}

// MergeIntervals unions partial interval maps by player number without mutating them.
func MergeIntervals(parts ...map[int][]model.PlayerInterval) map[int][]model.PlayerInterval {
	merged := make(map[int][]model.PlayerInterval)
	for _, part := range parts {
		for n, ivs := range part {
			merged[n] = append(merged[n], ivs...)
		}
	}
	for n := range merged {
		ivs := merged[n]
		sort.SliceStable(ivs, func(i, j int) bool {
			return ivs[i].Start.Total() < ivs[j].Start.Total()
		})
	}
	return merged
}

// BuildSetIntervals folds every position of a set into one player map.
func BuildSetIntervals(set model.SetResult, subs []model.Substitution, names model.NameLookup) (map[int][]model.PlayerInterval, error) {
	parts := make([]map[int][]model.PlayerInterval, 0, len(subs))
	for _, sub := range subs {
		part, err := ReconstructIntervals(set, sub, names)
		if err != nil {
			return nil, fmt.Errorf("position of player %d: %w", sub.Outgoing, err)
		}
		parts = append(parts, part)
	}
	return MergeIntervals(parts...), nil
}

// ---- Set / game aggregation ----

// ComputeSetStats sums each player's intervals. Every interval must move forward in score
// and no two intervals of one player may share a point.
func ComputeSetStats(intervals map[int][]model.PlayerInterval) (map[int]model.PlayerSetStats, error) {
	numbers := make([]int, 0, len(intervals))
	for n := range intervals {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	stats := make(map[int]model.PlayerSetStats, len(intervals))
	for _, n := range numbers {
		ivs := append([]model.PlayerInterval(nil), intervals[n]...)
		sort.SliceStable(ivs, func(i, j int) bool {
			return ivs[i].Start.Total() < ivs[j].Start.Total()
		})
		s := model.PlayerSetStats{Number: n, Intervals: ivs}
		for i, iv := range ivs {
			if !iv.End.AtOrAfter(iv.Start) {
				return nil, fmt.Errorf("player %d: %w", n, &model.NonMonotonicScoreError{Start: iv.Start, End: iv.End})
			}
			if i > 0 && !iv.Start.AtOrAfter(ivs[i-1].End) {
				return nil, &model.OverlappingIntervalError{Number: n, First: ivs[i-1], Second: iv}
			}
			if s.Name == "" {
				s.Name = iv.Name
			}
			s.PlusMinus += iv.PlusMinus()
			s.PointsPlayed += iv.PointsPlayed()
		}
		stats[n] = s
	}
	return stats, nil
}

// ComputeSet reconstructs and sums one set.
func ComputeSet(result model.SetResult, subs []model.Substitution, names model.NameLookup) (model.SetOutcome, error) {
	intervals, err := BuildSetIntervals(result, subs, names)
	if err != nil {
		return model.SetOutcome{}, err
	}
	players, err := ComputeSetStats(intervals)
	if err != nil {
		return model.SetOutcome{}, err
	}
	return model.SetOutcome{Result: result, Players: players}, nil
}

// ComputeGameStats sums per-set stats by player number. The result carries no game metadata.
func ComputeGameStats(sets map[int]model.SetOutcome) model.GameResult {
	game := model.GameResult{
		Sets:    make(map[int]model.SetOutcome, len(sets)),
		Players: make(map[int]model.PlayerGameStats),
	}
	nums := make([]int, 0, len(sets))
	for n := range sets {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	for _, n := range nums {
		set := sets[n]
		game.Sets[n] = set
		game.TotalPointsPlayed += set.Result.PointsPlayed()
		for num, ps := range set.Players {
			gs, seen := game.Players[num]
			if !seen {
				gs = model.PlayerGameStats{Number: num, Name: ps.Name}
			}
			gs.PlusMinus += ps.PlusMinus
			gs.PointsPlayed += ps.PointsPlayed
			gs.SetsPlayed++
			game.Players[num] = gs
		}
	}
	return game
}
