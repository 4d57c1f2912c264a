// Package feedsync orchestrates the release update workflow: resolve the
// latest upstream release per maintained series and bring every configured
// feedstock up to date.
package feedsync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lerenn/feedsync/pkg/adapters/github"
	"github.com/lerenn/feedsync/pkg/adapters/gitrepo"
	"github.com/lerenn/feedsync/pkg/checksum"
	"github.com/lerenn/feedsync/pkg/config"
	"github.com/lerenn/feedsync/pkg/feedstock"
	"github.com/lerenn/feedsync/pkg/logging"
	"github.com/lerenn/feedsync/pkg/version"
)

// FeedSync drives release resolution and feedstock updates for all
// configured ecosystems.
type FeedSync struct {
	config  *config.Config
	client  github.Client
	updater feedstock.Updater
}

// New creates a FeedSync with live collaborators.
func New(cfg *config.Config, token string, dryRun bool) *FeedSync {
	client := github.New(token)
	updater := feedstock.NewUpdater(feedstock.UpdaterParams{
		Client:    client,
		Git:       gitrepo.New(),
		Rerender:  feedstock.NewRerenderer(),
		ForkOwner: cfg.ForkOwner,
		Workdir:   cfg.Workdir,
		Author: gitrepo.Author{
			Name:  cfg.Git.Author.Name,
			Email: cfg.Git.Author.Email,
		},
		Token:  token,
		DryRun: dryRun,
	})
	return &FeedSync{config: cfg, client: client, updater: updater}
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Updated  []feedstock.Outcome
	Skipped  []feedstock.Outcome
	Failed   []feedstock.Outcome
	NotFound []version.Series
}

// Run processes every ecosystem and returns an error iff any feedstock
// update failed. Failures never abort the run: the remaining series and
// feedstocks are still processed and the result is a partial success.
func (f *FeedSync) Run(ctx context.Context) error {
	if len(f.config.Ecosystems) == 0 {
		return fmt.Errorf("no ecosystems configured")
	}

	var summary Summary
	for _, eco := range f.config.Ecosystems {
		f.processEcosystem(ctx, eco, &summary)
	}

	f.logSummary(ctx, summary)

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d feedstock update(s) failed", len(summary.Failed))
	}
	return nil
}

// processEcosystem resolves the ecosystem's series and updates each
// feedstock for each resolved series.
func (f *FeedSync) processEcosystem(ctx context.Context, eco config.Ecosystem, summary *Summary) {
	logger := logging.C(ctx)
	logger.Info("Fetching upstream tags",
		zap.String("ecosystem", eco.Name),
		zap.String("owner", eco.Upstream.Owner),
		zap.String("repo", eco.Upstream.Repo))

	tags, err := f.client.ListTags(ctx, eco.Upstream.Owner, eco.Upstream.Repo)
	if err != nil {
		logger.Error("Failed to list upstream tags, abandoning ecosystem",
			zap.String("ecosystem", eco.Name),
			zap.Error(err))
		for _, fs := range eco.Feedstocks {
			for _, series := range eco.RequestedSeries() {
				summary.Failed = append(summary.Failed, feedstock.Outcome{
					Feedstock: fs,
					Series:    series,
					Status:    feedstock.StatusFailed,
				})
			}
		}
		return
	}

	requested := eco.RequestedSeries()
	resolution := version.Resolve(tags, eco.Scheme(), requested)

	for _, series := range resolution.Missing {
		logger.Warn("Requested series not found upstream",
			zap.String("ecosystem", eco.Name),
			zap.String("series", string(series)))
		summary.NotFound = append(summary.NotFound, series)
	}
	for _, series := range requested {
		if latest, ok := resolution.Latest[series]; ok {
			logger.Info("Resolved latest release",
				zap.String("ecosystem", eco.Name),
				zap.String("series", string(series)),
				zap.String("version", latest.Version.String()),
				zap.String("tag", latest.Tag))
		}
	}

	provider := providerFor(eco.Checksums)
	for _, series := range requested {
		latest, ok := resolution.Latest[series]
		if !ok {
			continue
		}
		for _, fs := range eco.Feedstocks {
			f.updateFeedstock(ctx, eco, fs, series, latest, provider, summary)
		}
	}
}

// updateFeedstock drives one updater invocation and files its outcome.
func (f *FeedSync) updateFeedstock(
	ctx context.Context,
	eco config.Ecosystem,
	fs string,
	series version.Series,
	latest version.Candidate,
	provider checksum.Provider,
	summary *Summary,
) {
	logger := logging.C(ctx)
	outcome, err := f.updater.Update(ctx, feedstock.Request{
		Ecosystem: eco,
		Feedstock: fs,
		Series:    series,
		Latest:    latest,
		Checksums: provider,
	})
	if err != nil {
		logger.Error("Feedstock update failed, continuing",
			zap.String("feedstock", fs),
			zap.String("series", string(series)),
			zap.Error(err))
		summary.Failed = append(summary.Failed, outcome)
		return
	}

	switch outcome.Status {
	case feedstock.StatusUpdated, feedstock.StatusWouldUpdate:
		summary.Updated = append(summary.Updated, outcome)
	default:
		summary.Skipped = append(summary.Skipped, outcome)
	}
}

// providerFor builds the checksum provider for an ecosystem.
func providerFor(cfg config.Checksums) checksum.Provider {
	switch cfg.Mode {
	case "manifest":
		return checksum.NewManifestProvider(nil, cfg.ManifestURL, cfg.Targets)
	case "download":
		return checksum.NewDownloadProvider(nil, cfg.Artifacts)
	default:
		return checksum.Nop{}
	}
}

// logSummary prints the run summary in the same spirit as the original
// scripts' closing report.
func (f *FeedSync) logSummary(ctx context.Context, summary Summary) {
	logger := logging.C(ctx)
	logger.Info("Run summary",
		zap.Int("updated", len(summary.Updated)),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("failed", len(summary.Failed)),
		zap.Int("series_not_found", len(summary.NotFound)))

	for _, o := range summary.Updated {
		logger.Info("Update created",
			zap.String("feedstock", o.Feedstock),
			zap.String("series", string(o.Series)),
			zap.String("version", o.Latest),
			zap.String("status", string(o.Status)),
			zap.String("pr_url", o.PRURL))
	}
	for _, o := range summary.Skipped {
		logger.Info("Already up to date or skipped",
			zap.String("feedstock", o.Feedstock),
			zap.String("series", string(o.Series)),
			zap.String("status", string(o.Status)))
	}
	for _, o := range summary.Failed {
		logger.Warn("Update failed",
			zap.String("feedstock", o.Feedstock),
			zap.String("series", string(o.Series)))
	}
}

// RunWithLogging executes the workflow and terminates the process on error.
func (f *FeedSync) RunWithLogging(ctx context.Context) {
	logging.C(ctx).Info("Loaded configuration", zap.Any("config", f.config))

	if err := f.Run(ctx); err != nil {
		logging.C(ctx).Fatal("Error running feedsync", zap.Error(err))
	}
}
