// Package pdftext extracts plain text from scoresheet PDFs.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// ReadText returns the plain text content of every page of the PDF at path.
func ReadText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read text from %s: %w", path, err)
	}
	return buf.String(), nil
}

// Extract writes the text of the PDF at src to dst, or to w when dst is empty.
func Extract(src, dst string, w io.Writer) error {
	text, err := ReadText(src)
	if err != nil {
		return err
	}
	if dst == "" {
		_, err = io.WriteString(w, text)
		return err
	}
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
