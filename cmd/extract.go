package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JLammering/Volleyball-Stats/internal/pdftext"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract <scoresheet.pdf>",
	Short: "Dump the plain text of a scoresheet PDF",
	Long:  "Extract the text of a scoresheet PDF, e.g. to transcribe set results and substitutions into CSV files.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write text to this file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := pdftext.Extract(args[0], extractOut, os.Stdout); err != nil {
		return fmt.Errorf("extract %s: %w", args[0], err)
	}
	if extractOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", extractOut)
	}
	return nil
}
