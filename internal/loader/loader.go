package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

const (
	gameSuffix    = "-game.csv"
	playersSuffix = "-players.csv"
	namesSuffix   = "-names.csv"

	// DefaultNamesFile holds the team-wide number to name mapping.
	DefaultNamesFile = "player-names-normally.csv"
)

// Column names of the game and substitution files.
const (
	colSet        = "Set"
	colHome       = "Home"
	colAway       = "Away"
	colPlayer     = "Player"
	colPlayerNew  = "Player New"
	colChange     = "Change"
	colChangeBack = "Change Back"
)

// TeamDir is one <season>/<team> directory.
type TeamDir struct {
	Season string
	Team   string
	Path   string
}

// GameFiles groups the files belonging to one <home>-<away> pairing.
type GameFiles struct {
	Home        string
	Away        string
	GamePath    string
	PlayersPath string
	NamesPath   string // optional
}

// Name is the "<home>-<away>" pairing.
func (g GameFiles) Name() string { return g.Home + "-" + g.Away }

// SeasonLabel turns a directory name like 2023_24 into 2023/24.
func SeasonLabel(dir string) string { return strings.ReplaceAll(dir, "_", "/") }

// DiscoverTeams lists every <root>/<season>/<team> directory, sorted.
func DiscoverTeams(root string) ([]TeamDir, error) {
	seasons, err := subdirs(root)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	var out []TeamDir
	for _, season := range seasons {
		teams, err := subdirs(filepath.Join(root, season))
		if err != nil {
			return nil, fmt.Errorf("list teams of %s: %w", season, err)
		}
		for _, team := range teams {
			out = append(out, TeamDir{Season: season, Team: team, Path: filepath.Join(root, season, team)})
		}
	}
	return out, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// pairKey returns "<home>-<away>" and the parts from a file name such as TSC-MTV-game.csv.
func pairKey(file string) (key, home, away string, ok bool) {
	parts := strings.Split(file, "-")
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0] + "-" + parts[1], parts[0], parts[1], true
}

// DiscoverGames pairs game, substitution and optional name files in dir by their
// <home>-<away> prefix. A game file without a substitution file is an error.
func DiscoverGames(dir string) ([]GameFiles, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	games := make(map[string]*GameFiles)
	players := make(map[string]string)
	namesByKey := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		key, home, away, ok := pairKey(name)
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, gameSuffix):
			games[key] = &GameFiles{Home: home, Away: away, GamePath: path}
		case strings.HasSuffix(name, playersSuffix):
			players[key] = path
		case strings.HasSuffix(name, namesSuffix):
			namesByKey[key] = path
		}
	}

	keys := make([]string, 0, len(games))
	for k := range games {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]GameFiles, 0, len(keys))
	for _, k := range keys {
		g := games[k]
		p, ok := players[k]
		if !ok {
			return nil, fmt.Errorf("%s: no substitution file %s%s", dir, k, playersSuffix)
		}
		g.PlayersPath = p
		g.NamesPath = namesByKey[k]
		out = append(out, *g)
	}
	return out, nil
}

// LoadTeamNames reads the team-wide default names of a team directory.
func LoadTeamNames(dir string) (model.NameLookup, error) {
	names, err := ReadNameFile(filepath.Join(dir, DefaultNamesFile))
	if err != nil {
		return nil, fmt.Errorf("team names: %w", err)
	}
	return names, nil
}

// LoadGame reads one game and orients it to trackedTeam. defaults is the team-wide
// name lookup; a per-game name file overrides it.
func LoadGame(td TeamDir, files GameFiles, trackedTeam string, defaults model.NameLookup) (*model.RawGame, error) {
	raw := &model.RawGame{
		Season:   td.Season,
		Team:     td.Team,
		HomeTeam: files.Home,
		AwayTeam: files.Away,
		IsHome:   files.Home == trackedTeam,
		Names:    defaults,
	}

	if files.NamesPath != "" {
		override, err := ReadNameFile(files.NamesPath)
		if err != nil {
			return nil, fmt.Errorf("game names: %w", err)
		}
		raw.Names = defaults.Merge(override)
	}

	sets, err := readSets(files.GamePath, raw.IsHome)
	if err != nil {
		return nil, err
	}
	raw.Sets = sets

	subs, err := readSubstitutions(files.PlayersPath)
	if err != nil {
		return nil, err
	}
	raw.Substitutions = subs
	return raw, nil
}

func readSets(path string, isHome bool) ([]model.SetResult, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	sets := make([]model.SetResult, 0, len(t.rows))
	for i := range t.rows {
		n, err := t.intCell(i, colSet)
		if err != nil {
			return nil, err
		}
		home, err := t.intCell(i, colHome)
		if err != nil {
			return nil, err
		}
		away, err := t.intCell(i, colAway)
		if err != nil {
			return nil, err
		}
		score := model.Oriented(home, away, isHome)
		res, err := model.ValidateSetResult(n, score.Own, score.Opponent)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sets = append(sets, res)
	}
	return sets, nil
}

func readSubstitutions(path string) ([]model.Substitution, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	subs := make([]model.Substitution, 0, len(t.rows))
	for i := range t.rows {
		set, err := t.intCell(i, colSet)
		if err != nil {
			return nil, err
		}
		out, err := t.intCell(i, colPlayer)
		if err != nil {
			return nil, err
		}
		in, err := t.optionalIntCell(i, colPlayerNew)
		if err != nil {
			return nil, err
		}
		change, err := t.cell(i, colChange)
		if err != nil {
			return nil, err
		}
		back, err := t.cell(i, colChangeBack)
		if err != nil {
			return nil, err
		}
		sub, err := model.NewSubstitution(set, out, in, change, back)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		if sub.Kind != model.NoSubstitution && in == 0 {
			return nil, fmt.Errorf("%s line %d: substitution without incoming player", path, i+2)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
