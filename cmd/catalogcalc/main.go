package main

import (
	"os"

	"github.com/spf13/cobra"

	"catalogcalc/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "catalogcalc",
		Short:        "Evaluate arithmetic chains over creature and sci-fi catalog entities",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the project config file")
	root.AddCommand(solveCmd())
	root.AddCommand(evalCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(runCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
