package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JLammering/Volleyball-Stats/internal/model"
)

// Format selects a renderer.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// ParseFormat accepts pdf, html or text (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatHTML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want pdf, html or text)", s)
	}
}

// Extension is the file suffix for documents in this format.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Render writes doc to w in the given format.
func Render(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatPDF:
		return WritePDF(w, doc)
	case FormatHTML:
		return WriteHTML(w, doc)
	case FormatText:
		return WriteText(w, doc)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// GamePath is <out>/<season>/<team>/<home>-<away><ext>.
func GamePath(outDir string, f Format, g model.GameResult) string {
	return filepath.Join(outDir, g.Season, g.Team, g.Name()+f.Extension())
}

// SeasonPath is <out>/<season>/<team>/season<ext>.
func SeasonPath(outDir string, f Format, s model.SeasonTotals) string {
	return filepath.Join(outDir, s.Season, s.Team, "season"+f.Extension())
}

// WriteGameFile renders one game into its file under outDir and returns the path.
func WriteGameFile(outDir string, f Format, g model.GameResult) (string, error) {
	path := GamePath(outDir, f, g)
	return path, writeFile(path, f, GameDocument(g))
}

// WriteSeasonFile renders season totals into season<ext> under outDir and returns the path.
func WriteSeasonFile(outDir string, f Format, s model.SeasonTotals) (string, error) {
	path := SeasonPath(outDir, f, s)
	return path, writeFile(path, f, SeasonDocument(s))
}

func writeFile(path string, f Format, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Render(out, f, doc); err != nil {
		out.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return out.Close()
}
