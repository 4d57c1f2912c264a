package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lerenn/feedsync/pkg/config"
	"github.com/lerenn/feedsync/pkg/feedsync"
	"github.com/lerenn/feedsync/pkg/logging"
)

var (
	configPath string
	dryRun     bool
)

func main() {
	logging.Init()

	var rootCmd = &cobra.Command{
		Use:   "feedsync",
		Short: "Feedsync keeps conda-forge feedstocks in sync with upstream releases",
		Run: func(_ *cobra.Command, _ []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				logging.L().Fatal("Failed to load config", zap.Error(err))
			}

			token := os.Getenv("GITHUB_TOKEN")
			if token == "" && !dryRun {
				logging.L().Fatal("GITHUB_TOKEN environment variable is not set")
			}

			if dryRun {
				logging.L().Info("Dry run mode: no changes will be made")
			}

			f := feedsync.New(cfg, token, dryRun)

			ctx := context.Background()
			f.RunWithLogging(ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/feedsync.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview changes without making them")

	if err := rootCmd.Execute(); err != nil {
		logging.L().Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}
