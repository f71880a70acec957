package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/JLammering/Volleyball-Stats/internal/loader"
	"github.com/JLammering/Volleyball-Stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// WriteText renders the document as terminal tables, one per captioned block.
func WriteText(w io.Writer, doc Document) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", doc.TitleText()); err != nil {
		return err
	}
	for _, t := range doc.Tables {
		if t.Caption != "" {
			fmt.Fprintf(w, "\n%s\n", t.Caption)
		}
		table := newTable(w)
		table.Header(toAny(t.Header)...)
		for _, r := range t.Rows {
			if err := table.Append(toAny(r)...); err != nil {
				return fmt.Errorf("append row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	return nil
}

// PrintGameList prints one line per stored game.
func PrintGameList(w io.Writer, games []model.GameSummary) {
	table := newTable(w)
	table.Header("ID", "SEASON", "TEAM", "OPPONENT", "VENUE", "SETS", "POINTS", "PROCESSED")
	for _, g := range games {
		venue := "away"
		if g.IsHome {
			venue = "home"
		}
		table.Append(
			g.ID,
			loader.SeasonLabel(g.Season),
			g.Team,
			g.Opponent(),
			venue,
			fmt.Sprintf("%d:%d", g.SetsWon, g.SetsLost),
			strconv.Itoa(g.TotalPoints),
			g.ProcessedAt,
		)
	}
	table.Render()
}

// PrintSeasonList prints stored team seasons with their game counts.
func PrintSeasonList(w io.Writer, refs []model.SeasonRef) {
	table := newTable(w)
	table.Header("SEASON", "TEAM", "GAMES")
	for _, r := range refs {
		table.Append(r.Season, r.Team, strconv.Itoa(r.Games))
	}
	table.Render()
}

// PrintRaw prints the result of an ad-hoc query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, r := range rows {
		table.Append(toAny(r)...)
	}
	table.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
