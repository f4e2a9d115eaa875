package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "popularity-score",
		Short:         "Rank github repositories by a popularity score computed from stars, forks and recency",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config.toml file (default: config/config.toml)")

	serve := newServeCommand(&configPath)
	root.AddCommand(serve, newSearchCommand(&configPath))

	// running without sub command starts the server
	root.RunE = serve.RunE

	return root
}
