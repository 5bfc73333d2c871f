package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scribadev/scriba"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a PDF to Markdown, plain text, or JSON",
	Long: `Convert extracts a PDF's text content and structure and renders it in the
requested format. Markdown keeps headings and list markers, text is plain
reading-order content, and JSON carries per-block geometry and roles.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		password, _ := cmd.Flags().GetString("password")
		compact, _ := cmd.Flags().GetBool("compact")
		stripEdges, _ := cmd.Flags().GetBool("exclude-headers-footers")
		useOCR, _ := cmd.Flags().GetBool("ocr")

		ex := scriba.Open(args[0])
		defer ex.Close()
		if password != "" {
			ex.WithPassword(password)
		}
		if stripEdges {
			ex.ExcludeHeadersFooters()
		}
		if useOCR {
			ex.WithOCRFallback()
		}

		var content string
		var warnings []scriba.Warning
		var err error
		switch format {
		case "markdown", "md":
			content, warnings, err = ex.Markdown()
		case "text", "txt":
			content, warnings, err = ex.Text()
		case "json":
			content, warnings, err = ex.JSON(!compact)
		default:
			return fmt.Errorf("unknown format %q (want markdown, text, or json)", format)
		}
		if err != nil {
			return err
		}

		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		if output == "" {
			fmt.Println(content)
			return nil
		}
		return os.WriteFile(output, []byte(content+"\n"), 0o644)
	},
}

func init() {
	convertCmd.Flags().StringP("format", "f", "markdown", "output format: markdown, text, or json")
	convertCmd.Flags().StringP("output", "o", "", "output file (stdout if not specified)")
	convertCmd.Flags().StringP("password", "p", "", "password for encrypted documents")
	convertCmd.Flags().Bool("compact", false, "emit compact JSON (json format only)")
	convertCmd.Flags().Bool("exclude-headers-footers", false, "drop repeated page headers and footers")
	convertCmd.Flags().Bool("ocr", false, "OCR pages without a text layer (needs an ocr-enabled build)")

	rootCmd.AddCommand(convertCmd)
}
