package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Score is a point pair seen from the tracked team's side of the net.
type Score struct {
	Own      int
	Opponent int
}

// Oriented builds a Score from raw home/away columns.
func Oriented(home, away int, isHome bool) Score {
	if isHome {
		return Score{Own: home, Opponent: away}
	}
	return Score{Own: away, Opponent: home}
}

// ParseScore parses an "own:opponent" string.
func ParseScore(raw string) (Score, error) {
	own, opp, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return Score{}, fmt.Errorf("score %q: missing ':' separator", raw)
	}
	o, err := strconv.Atoi(strings.TrimSpace(own))
	if err != nil {
		return Score{}, fmt.Errorf("score %q: own points: %w", raw, err)
	}
	p, err := strconv.Atoi(strings.TrimSpace(opp))
	if err != nil {
		return Score{}, fmt.Errorf("score %q: opponent points: %w", raw, err)
	}
	if o < 0 || p < 0 {
		return Score{}, fmt.Errorf("score %q: negative points", raw)
	}
	return Score{Own: o, Opponent: p}, nil
}

// Total is the number of rallies played to reach s.
func (s Score) Total() int { return s.Own + s.Opponent }

// Diff is own minus opponent points.
func (s Score) Diff() int { return s.Own - s.Opponent }

// Sub returns the per-side point delta from start to s.
func (s Score) Sub(start Score) Score {
	return Score{Own: s.Own - start.Own, Opponent: s.Opponent - start.Opponent}
}

// AtOrAfter reports whether s is reachable from start without points going backwards.
func (s Score) AtOrAfter(start Score) bool {
	return s.Own >= start.Own && s.Opponent >= start.Opponent
}

func (s Score) String() string {
	return fmt.Sprintf("%d:%d", s.Own, s.Opponent)
}
