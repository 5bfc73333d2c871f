package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribadev/scriba"
)

var detectCmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Probe whether a file is a PDF",
	Long: `Detect runs a cheap structural probe: the PDF header near the start of the
file and an end-of-file marker near its end. No parsing happens, so it is
safe on arbitrary input. The exit status is 0 for PDFs and 1 otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scriba.IsPDF(args[0]) {
			return fmt.Errorf("%s: not a PDF", args[0])
		}
		fmt.Printf("%s: PDF\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
