package pdftext

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func writeScoresheet(t *testing.T, lines ...string) string {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, l := range lines {
		doc.CellFormat(0, 8, l, "", 1, "L", false, 0, "")
	}
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func TestReadText(t *testing.T) {
	path := writeScoresheet(t, "TSC-MTV", "Set1 25:20")

	text, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	for _, want := range []string{"TSC-MTV", "25:20"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
}

func TestReadTextMissingFile(t *testing.T) {
	if _, err := ReadText(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtract(t *testing.T) {
	path := writeScoresheet(t, "Scoresheet")

	var buf bytes.Buffer
	if err := Extract(path, "", &buf); err != nil {
		t.Fatalf("Extract to writer: %v", err)
	}
	if !strings.Contains(buf.String(), "Scoresheet") {
		t.Errorf("writer output = %q", buf.String())
	}

	dst := filepath.Join(t.TempDir(), "sheet.txt")
	if err := Extract(path, dst, nil); err != nil {
		t.Fatalf("Extract to file: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), "Scoresheet") {
		t.Errorf("file output = %q", b)
	}
}
