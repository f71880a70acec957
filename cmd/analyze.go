package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/aggregator"
)

const analyzeSystemPrompt = `You are a volleyball performance analyst. You are given plus-minus data
reconstructed from substitution sheets for one team season, and a question from a coach.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Small samples (few points played) are noisy; say so when a claim rests on one.
- Be concise and actionable.

Metrics glossary:
- plus_minus: own points minus opponent points while the player was on court.
- points_played: rallies played while the player was on court.
- share_pct: points_played as a percentage of all rallies of the season or game.
- plus_minus_per_50: plus_minus normalised to 50 points played; null when no points were played.
- Players are matched across games by display name.`

var (
	analyzeModel    string
	analyzeGame     string
	analyzeMarkdown bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <season> <team> <question>",
	Short: "AI-powered grounded analysis of a team season (requires ANTHROPIC_API_KEY)",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().BoolVar(&analyzeMarkdown, "markdown", false, "render the answer as terminal markdown once complete instead of streaming raw text")
	analyzeCmd.Flags().StringVar(&analyzeGame, "game", "", "also include full set detail for the game with this id prefix")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	season, team := args[0], args[1]
	question := strings.Join(args[2:], " ")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	games, err := db.LoadSeasonGames(season, team)
	if err != nil {
		return fmt.Errorf("load season: %w", err)
	}
	if len(games) == 0 {
		return fmt.Errorf("no games stored for %s/%s", season, team)
	}

	doc := map[string]any{
		"subject": "season",
		"season":  buildSeasonPayload(aggregator.ComputeSeasonStats(season, team, games)),
	}
	if analyzeGame != "" {
		summary, err := db.GetGameByPrefix(analyzeGame)
		if err != nil {
			return fmt.Errorf("find game: %w", err)
		}
		if summary == nil {
			return fmt.Errorf("no game found with id prefix %q", analyzeGame)
		}
		g, err := db.LoadGame(summary.ID)
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}
		if g != nil {
			doc["game"] = buildGamePayload(*g)
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), cfg.APIKey, analyzeModel, string(b), question)
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	var answer strings.Builder
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				text := delta.Delta.AsTextDelta().Text
				if analyzeMarkdown {
					answer.WriteString(text)
				} else {
					fmt.Fprint(os.Stdout, text)
				}
			}
		}
	}
	if analyzeMarkdown && answer.Len() > 0 {
		fmt.Fprint(os.Stdout, renderMarkdown(answer.String()))
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

// renderMarkdown styles md for the terminal, falling back to the raw text.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
