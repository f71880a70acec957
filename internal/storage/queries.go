package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

var now = time.Now

// GameExists returns true if a game with the given id is already stored.
func (db *DB) GameExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteGame removes a game and all its rows. It reports whether the game was stored.
func (db *DB) DeleteGame(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	existed, err := clearGame(tx, id)
	if err != nil {
		return false, err
	}
	return existed, tx.Commit()
}

func clearGame(tx *sql.Tx, id string) (bool, error) {
	for _, table := range []string{"player_game_stats", "player_intervals", "player_set_stats", "sets"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", id); err != nil {
			return false, fmt.Errorf("clear %s for %s: %w", table, id, err)
		}
	}
	res, err := tx.Exec("DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("clear game %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clear game %s: %w", id, err)
	}
	return n > 0, nil
}

// SaveGame stores a game with all set, interval and player rows in one transaction,
// replacing any previous version of the same game.
func (db *DB) SaveGame(g model.GameResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := g.ID()
	if _, err := clearGame(tx, id); err != nil {
		return err
	}

	won, lost := g.SetsWon()
	_, err = tx.Exec(`
		INSERT INTO games(id, season, team, home_team, away_team, is_home, sets_won, sets_lost, total_points, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, g.Season, g.Team, g.HomeTeam, g.AwayTeam, boolInt(g.IsHome),
		won, lost, g.TotalPointsPlayed, now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", id, err)
	}

	setStmt, err := tx.Prepare(`INSERT INTO sets(game_id, set_number, own_points, opponent_points) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer setStmt.Close()
	statStmt, err := tx.Prepare(`
		INSERT INTO player_set_stats(game_id, set_number, number, name, plus_minus, points_played)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer statStmt.Close()
	ivStmt, err := tx.Prepare(`
		INSERT INTO player_intervals(game_id, set_number, number, seq, name, start_own, start_opp, end_own, end_opp)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer ivStmt.Close()

	for n, set := range g.Sets {
		if _, err := setStmt.Exec(id, n, set.Result.Final.Own, set.Result.Final.Opponent); err != nil {
			return fmt.Errorf("insert set %d of %s: %w", n, id, err)
		}
		for num, ps := range set.Players {
			if _, err := statStmt.Exec(id, n, num, ps.Name, ps.PlusMinus, ps.PointsPlayed); err != nil {
				return fmt.Errorf("insert set stats %d/%d of %s: %w", n, num, id, err)
			}
			for seq, iv := range ps.Intervals {
				_, err := ivStmt.Exec(id, n, num, seq, iv.Name,
					iv.Start.Own, iv.Start.Opponent, iv.End.Own, iv.End.Opponent)
				if err != nil {
					return fmt.Errorf("insert interval %d/%d/%d of %s: %w", n, num, seq, id, err)
				}
			}
		}
	}

	gameStmt, err := tx.Prepare(`
		INSERT INTO player_game_stats(game_id, number, name, plus_minus, points_played, sets_played)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer gameStmt.Close()
	for num, p := range g.Players {
		if _, err := gameStmt.Exec(id, num, p.Name, p.PlusMinus, p.PointsPlayed, p.SetsPlayed); err != nil {
			return fmt.Errorf("insert game stats %d of %s: %w", num, id, err)
		}
	}

	return tx.Commit()
}

const summaryColumns = `id, season, team, home_team, away_team, is_home, sets_won, sets_lost, total_points, processed_at`

func scanSummary(scan func(dest ...any) error) (model.GameSummary, error) {
	var s model.GameSummary
	var isHome int
	err := scan(&s.ID, &s.Season, &s.Team, &s.HomeTeam, &s.AwayTeam, &isHome,
		&s.SetsWon, &s.SetsLost, &s.TotalPoints, &s.ProcessedAt)
	s.IsHome = isHome != 0
	return s, err
}

// ListGames returns stored games, optionally filtered by season and team (empty = any).
func (db *DB) ListGames(season, team string) ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT `+summaryColumns+` FROM games
		WHERE (? = '' OR season = ?) AND (? = '' OR team = ?)
		ORDER BY season DESC, team, id`, season, season, team, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		s, err := scanSummary(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetGameByPrefix finds the first game whose id starts with the given prefix.
func (db *DB) GetGameByPrefix(prefix string) (*model.GameSummary, error) {
	row := db.conn.QueryRow(`SELECT `+summaryColumns+` FROM games
		WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT 1`, prefix, prefix)
	s, err := scanSummary(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSeasons returns every stored season/team pair with its game count.
func (db *DB) ListSeasons() ([]model.SeasonRef, error) {
	rows, err := db.conn.Query(`
		SELECT season, team, COUNT(1) FROM games
		GROUP BY season, team ORDER BY season DESC, team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonRef
	for rows.Next() {
		var r model.SeasonRef
		if err := rows.Scan(&r.Season, &r.Team, &r.Games); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadGame rebuilds a full GameResult from its stored rows. It returns nil if id is unknown.
func (db *DB) LoadGame(id string) (*model.GameResult, error) {
	row := db.conn.QueryRow(`SELECT `+summaryColumns+` FROM games WHERE id = ?`, id)
	sum, err := scanSummary(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	g := &model.GameResult{
		Season:            sum.Season,
		Team:              sum.Team,
		HomeTeam:          sum.HomeTeam,
		AwayTeam:          sum.AwayTeam,
		IsHome:            sum.IsHome,
		TotalPointsPlayed: sum.TotalPoints,
		Sets:              make(map[int]model.SetOutcome),
		Players:           make(map[int]model.PlayerGameStats),
	}

	if err := db.loadSets(id, g); err != nil {
		return nil, fmt.Errorf("load sets of %s: %w", id, err)
	}
	if err := db.loadIntervals(id, g); err != nil {
		return nil, fmt.Errorf("load intervals of %s: %w", id, err)
	}
	if err := db.loadGamePlayers(id, g); err != nil {
		return nil, fmt.Errorf("load players of %s: %w", id, err)
	}
	return g, nil
}

func (db *DB) loadSets(id string, g *model.GameResult) error {
	rows, err := db.conn.Query(`SELECT set_number, own_points, opponent_points FROM sets WHERE game_id = ?`, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r model.SetResult
		if err := rows.Scan(&r.Number, &r.Final.Own, &r.Final.Opponent); err != nil {
			return err
		}
		g.Sets[r.Number] = model.SetOutcome{Result: r, Players: make(map[int]model.PlayerSetStats)}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	stats, err := db.conn.Query(`
		SELECT set_number, number, name, plus_minus, points_played
		FROM player_set_stats WHERE game_id = ?`, id)
	if err != nil {
		return err
	}
	defer stats.Close()
	for stats.Next() {
		var set int
		var ps model.PlayerSetStats
		if err := stats.Scan(&set, &ps.Number, &ps.Name, &ps.PlusMinus, &ps.PointsPlayed); err != nil {
			return err
		}
		outcome, ok := g.Sets[set]
		if !ok {
			return fmt.Errorf("player stats for missing set %d", set)
		}
		outcome.Players[ps.Number] = ps
	}
	return stats.Err()
}

func (db *DB) loadIntervals(id string, g *model.GameResult) error {
	rows, err := db.conn.Query(`
		SELECT set_number, number, name, start_own, start_opp, end_own, end_opp
		FROM player_intervals WHERE game_id = ? ORDER BY set_number, number, seq`, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var set int
		var iv model.PlayerInterval
		if err := rows.Scan(&set, &iv.Number, &iv.Name,
			&iv.Start.Own, &iv.Start.Opponent, &iv.End.Own, &iv.End.Opponent); err != nil {
			return err
		}
		outcome, ok := g.Sets[set]
		if !ok {
			return fmt.Errorf("interval for missing set %d", set)
		}
		ps := outcome.Players[iv.Number]
		ps.Intervals = append(ps.Intervals, iv)
		outcome.Players[iv.Number] = ps
	}
	return rows.Err()
}

func (db *DB) loadGamePlayers(id string, g *model.GameResult) error {
	rows, err := db.conn.Query(`
		SELECT number, name, plus_minus, points_played, sets_played
		FROM player_game_stats WHERE game_id = ?`, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.PlayerGameStats
		if err := rows.Scan(&p.Number, &p.Name, &p.PlusMinus, &p.PointsPlayed, &p.SetsPlayed); err != nil {
			return err
		}
		g.Players[p.Number] = p
	}
	return rows.Err()
}

// LoadSeasonGames rebuilds every stored game of one team season, sorted by id.
func (db *DB) LoadSeasonGames(season, team string) ([]model.GameResult, error) {
	summaries, err := db.ListGames(season, team)
	if err != nil {
		return nil, err
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	games := make([]model.GameResult, 0, len(summaries))
	for _, s := range summaries {
		g, err := db.LoadGame(s.ID)
		if err != nil {
			return nil, err
		}
		if g != nil {
			games = append(games, *g)
		}
	}
	return games, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
