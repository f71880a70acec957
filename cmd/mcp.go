package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/aggregator"
	"github.com/JLammering/Volleyball-Stats/internal/loader"
	"github.com/JLammering/Volleyball-Stats/internal/logging"
	"github.com/JLammering/Volleyball-Stats/internal/storage"
)

const mcpVersion = "0.1.0"

// ListGamesArgs filters stored games.
type ListGamesArgs struct {
	Season string `json:"season,omitempty" jsonschema:"Season directory, e.g. 2023_24 (empty = all)"`
	Team   string `json:"team,omitempty" jsonschema:"Team directory, e.g. H1 (empty = all)"`
}

// GameStatsArgs selects one stored game.
type GameStatsArgs struct {
	Game string `json:"game" jsonschema:"Game id or id prefix, e.g. 2023_24/H1/TSC-MTV (required)"`
}

// SeasonStatsArgs selects one team season.
type SeasonStatsArgs struct {
	Season string `json:"season" jsonschema:"Season directory, e.g. 2023_24 (required)"`
	Team   string `json:"team" jsonschema:"Team directory, e.g. H1 (required)"`
}

type gameListEntry struct {
	ID          string `json:"id"`
	Season      string `json:"season"`
	Team        string `json:"team"`
	Opponent    string `json:"opponent"`
	Home        bool   `json:"home"`
	Sets        string `json:"sets"`
	TotalPoints int    `json:"total_points"`
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve stored stats as MCP tools over stdio",
	Long:  "Run a Model Context Protocol server on stdin/stdout exposing list_games, game_stats and season_stats.",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	server := newMCPServer(db)
	logging.Info(logger, "mcp server starting", logging.FieldPath, cfg.DBPath)
	if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func newMCPServer(db *storage.DB) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "vbstats", Version: mcpVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_games",
		Description: "List stored games with opponent, venue, set score and points played",
	}, listGamesHandler(db))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "game_stats",
		Description: "Per-set and whole-game plus-minus, points played and playing intervals for one game",
	}, gameStatsHandler(db))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "season_stats",
		Description: "Per-player season totals (games, plus-minus, points played, share, per-50) for one team season",
	}, seasonStatsHandler(db))

	return server
}

func listGamesHandler(db *storage.DB) mcp.ToolHandlerFor[ListGamesArgs, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args ListGamesArgs) (*mcp.CallToolResult, any, error) {
		games, err := db.ListGames(args.Season, args.Team)
		if err != nil {
			return toolError(err), nil, nil
		}
		out := make([]gameListEntry, 0, len(games))
		for _, g := range games {
			out = append(out, gameListEntry{
				ID:          g.ID,
				Season:      loader.SeasonLabel(g.Season),
				Team:        g.Team,
				Opponent:    g.Opponent(),
				Home:        g.IsHome,
				Sets:        fmt.Sprintf("%d:%d", g.SetsWon, g.SetsLost),
				TotalPoints: g.TotalPoints,
			})
		}
		return toolJSON(map[string]any{"games": out})
	}
}

func gameStatsHandler(db *storage.DB) mcp.ToolHandlerFor[GameStatsArgs, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GameStatsArgs) (*mcp.CallToolResult, any, error) {
		if args.Game == "" {
			return toolError(fmt.Errorf("game is required")), nil, nil
		}
		summary, err := db.GetGameByPrefix(args.Game)
		if err != nil {
			return toolError(err), nil, nil
		}
		if summary == nil {
			return toolError(fmt.Errorf("no game found with id prefix %q", args.Game)), nil, nil
		}
		g, err := db.LoadGame(summary.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		if g == nil {
			return toolError(fmt.Errorf("game %s not found", summary.ID)), nil, nil
		}
		return toolJSON(buildGamePayload(*g))
	}
}

func seasonStatsHandler(db *storage.DB) mcp.ToolHandlerFor[SeasonStatsArgs, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SeasonStatsArgs) (*mcp.CallToolResult, any, error) {
		if args.Season == "" || args.Team == "" {
			return toolError(fmt.Errorf("season and team are required")), nil, nil
		}
		games, err := db.LoadSeasonGames(args.Season, args.Team)
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(games) == 0 {
			return toolError(fmt.Errorf("no games stored for %s/%s", args.Season, args.Team)), nil, nil
		}
		totals := aggregator.ComputeSeasonStats(args.Season, args.Team, games)
		return toolJSON(buildSeasonPayload(totals))
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
