package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weave-pm/weave/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of weave",
	Run: func(_ *cobra.Command, _ []string) {
		info := version.Get()
		fmt.Printf("weave version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
