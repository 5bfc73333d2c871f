// Package main is the entry point for the scriba CLI, a PDF content
// extraction tool over the scriba library.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the scriba CLI.
var rootCmd = &cobra.Command{
	Use:   "scriba",
	Short: "Extract PDF content to Markdown, text, and JSON",
	Long: `scriba parses PDF files and reconstructs their logical structure: pages,
text runs, paragraphs, headings, and lists. The recovered structure is
serialized to Markdown, plain text, or JSON.

Each operation is a subcommand: convert renders a document, info prints its
metadata, and detect probes whether a file is a PDF at all.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
