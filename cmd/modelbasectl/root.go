package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "modelbasectl",
	Short: "Modelbase command-line tool",
	Long: `modelbasectl manages a Modelbase installation: the server process,
database migrations, model declarations and users.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
