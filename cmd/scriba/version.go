package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribadev/scriba"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of scriba",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scriba %s\n", scriba.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
