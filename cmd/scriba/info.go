package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribadev/scriba"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print document metadata as JSON",
	Long: `Info reads the document's Info dictionary and XMP metadata without
interpreting any page content, so it is fast even on large files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")

		ex := scriba.Open(args[0])
		defer ex.Close()
		if password != "" {
			ex.WithPassword(password)
		}

		out, err := ex.Info()
		if err != nil {
			return err
		}

		// Re-indent for terminal readability.
		var pretty map[string]interface{}
		if err := json.Unmarshal([]byte(out), &pretty); err == nil {
			if data, err := json.MarshalIndent(pretty, "", "  "); err == nil {
				out = string(data)
			}
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	infoCmd.Flags().StringP("password", "p", "", "password for encrypted documents")

	rootCmd.AddCommand(infoCmd)
}
