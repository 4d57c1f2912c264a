package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lerenn/feedsync/pkg/adapters/github"
	"github.com/lerenn/feedsync/pkg/config"
	"github.com/lerenn/feedsync/pkg/logging"
	"github.com/lerenn/feedsync/pkg/migration"
)

var (
	configPath string
	hint       string
	outputPath string
)

func main() {
	logging.Init()

	var rootCmd = &cobra.Command{
		Use:   "mkmigration",
		Short: "Generate a conda-forge pinning migration for stale package pins",
		Run: func(_ *cobra.Command, _ []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				logging.L().Fatal("Failed to load config", zap.Error(err))
			}
			if len(cfg.Migration.Packages) == 0 {
				logging.L().Fatal("No migration packages configured")
			}

			client := github.New(os.Getenv("GITHUB_TOKEN"))
			gen := migration.NewGenerator(client, migration.NewAnacondaClient(nil, ""))

			message := "Rebuild for updated pins"
			if hint != "" {
				message = fmt.Sprintf("%s (%s)", message, hint)
			}

			ctx := context.Background()
			bumps, doc, err := gen.Build(ctx, cfg.Migration.Pinning, cfg.Migration.Packages, migration.Options{
				CommitMessage: message,
				BuildNumber:   cfg.Migration.BuildNumber,
				Automerge:     cfg.Migration.Automerge,
			})
			if err != nil {
				logging.L().Fatal("Failed to build migration", zap.Error(err))
			}
			if len(bumps) == 0 {
				logging.L().Info("All pins are current, nothing to migrate")
				return
			}

			if outputPath == "" {
				fmt.Print(doc)
				return
			}
			if err := os.WriteFile(outputPath, []byte(doc), 0644); err != nil {
				logging.L().Fatal("Failed to write migration", zap.Error(err))
			}
			logging.L().Info("Migration written",
				zap.String("path", outputPath),
				zap.Int("packages", len(bumps)))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/feedsync.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&hint, "hint", "", "Hint appended to the migration commit message")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Write the migration to a file instead of stdout")

	if err := rootCmd.Execute(); err != nil {
		logging.L().Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}
