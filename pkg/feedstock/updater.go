//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=updater.go -destination=mock.gen.go -package=feedstock

// Package feedstock updates a single conda-forge feedstock for a new
// upstream release: clone, series branch checkout, recipe rewrite, rerender,
// push and pull request.
package feedstock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lerenn/feedsync/pkg/adapters/github"
	"github.com/lerenn/feedsync/pkg/adapters/gitrepo"
	"github.com/lerenn/feedsync/pkg/checksum"
	"github.com/lerenn/feedsync/pkg/config"
	"github.com/lerenn/feedsync/pkg/logging"
	"github.com/lerenn/feedsync/pkg/recipe"
	"github.com/lerenn/feedsync/pkg/version"
)

// Status classifies the outcome of one feedstock/series update attempt.
type Status string

const (
	// StatusUpdated means a pull request was opened.
	StatusUpdated Status = "updated"
	// StatusWouldUpdate means dry-run mode detected a stale pin.
	StatusWouldUpdate Status = "would-update"
	// StatusUpToDate means the pin already matches the latest release.
	StatusUpToDate Status = "up-to-date"
	// StatusSkipped means the series branch does not exist on the feedstock.
	StatusSkipped Status = "skipped"
	// StatusFailed means a collaborator step failed; the run continues with
	// other feedstocks.
	StatusFailed Status = "failed"
)

// Request identifies one feedstock/series pair to bring up to date.
type Request struct {
	Ecosystem config.Ecosystem
	Feedstock string
	Series    version.Series
	Latest    version.Candidate
	Checksums checksum.Provider
}

// Outcome reports what happened for one Request.
type Outcome struct {
	Feedstock string
	Series    version.Series
	Status    Status
	Current   string
	Latest    string
	PRURL     string
}

// Updater drives the update workflow for single feedstock/series pairs.
type Updater interface {
	Update(ctx context.Context, req Request) (Outcome, error)
}

type updater struct {
	client    github.Client
	git       gitrepo.Git
	rerender  Rerenderer
	forkOwner string
	workdir   string
	author    gitrepo.Author
	token     string
	dryRun    bool
}

// UpdaterParams contains the collaborators and settings for NewUpdater.
type UpdaterParams struct {
	Client    github.Client
	Git       gitrepo.Git
	Rerender  Rerenderer
	ForkOwner string
	Workdir   string
	Author    gitrepo.Author
	Token     string
	DryRun    bool
}

// NewUpdater creates an Updater.
func NewUpdater(params UpdaterParams) Updater {
	return &updater{
		client:    params.Client,
		git:       params.Git,
		rerender:  params.Rerender,
		forkOwner: params.ForkOwner,
		workdir:   params.Workdir,
		author:    params.Author,
		token:     params.Token,
		dryRun:    params.DryRun,
	}
}

const upstreamOwner = "conda-forge"

// Update runs the full update workflow for one feedstock/series pair. The
// returned error carries the failure detail; the Outcome always carries the
// classification so callers can summarize partial runs.
func (u *updater) Update(ctx context.Context, req Request) (Outcome, error) {
	logger := logging.C(ctx)
	outcome := Outcome{
		Feedstock: req.Feedstock,
		Series:    req.Series,
		Latest:    req.Latest.Version.String(),
	}

	seriesBranch := fmt.Sprintf("%s.x", req.Series)
	dir := filepath.Join(u.workdir, req.Feedstock)

	if err := u.prepareClone(ctx, req.Feedstock, dir); err != nil {
		outcome.Status = StatusFailed
		return outcome, err
	}

	err := u.git.CheckoutSeriesBranch(ctx, gitrepo.CheckoutSeriesBranchParams{
		Dir:    dir,
		Branch: seriesBranch,
	})
	if errors.Is(err, gitrepo.ErrBranchNotFound) {
		logger.Warn("Series branch does not exist, skipping",
			zap.String("feedstock", req.Feedstock),
			zap.String("branch", seriesBranch))
		outcome.Status = StatusSkipped
		return outcome, nil
	}
	if err != nil {
		outcome.Status = StatusFailed
		return outcome, err
	}

	proceed, err := u.decide(ctx, dir, req, &outcome)
	if err != nil || !proceed {
		return outcome, err
	}

	if u.dryRun {
		logger.Info("Dry run: would update feedstock",
			zap.String("feedstock", req.Feedstock),
			zap.String("series", string(req.Series)),
			zap.String("current", outcome.Current),
			zap.String("latest", outcome.Latest))
		outcome.Status = StatusWouldUpdate
		return outcome, nil
	}

	prURL, err := u.applyUpdate(ctx, dir, seriesBranch, req)
	if err != nil {
		outcome.Status = StatusFailed
		return outcome, err
	}

	outcome.Status = StatusUpdated
	outcome.PRURL = prURL
	return outcome, nil
}

// prepareClone forks the feedstock and clones or refreshes the local copy.
func (u *updater) prepareClone(ctx context.Context, feedstock, dir string) error {
	forkURL, err := u.client.CreateFork(ctx, upstreamOwner, feedstock)
	if err != nil {
		return fmt.Errorf("failed to fork %s: %w", feedstock, err)
	}
	if forkURL == "" {
		// Fork creation is async; the URL is predictable.
		forkURL = fmt.Sprintf("https://github.com/%s/%s.git", u.forkOwner, feedstock)
	}

	return u.git.Clone(ctx, gitrepo.CloneParams{
		Dir:         dir,
		OriginURL:   forkURL,
		UpstreamURL: fmt.Sprintf("https://github.com/%s/%s.git", upstreamOwner, feedstock),
		Token:       u.token,
	})
}

// decide reads the current pin and compares it with the resolved latest.
// It returns whether the update should proceed. A recipe without a readable
// pin proceeds with a warning; a malformed pin fails the pair.
func (u *updater) decide(ctx context.Context, dir string, req Request, outcome *Outcome) (bool, error) {
	logger := logging.C(ctx)

	current, _, err := recipe.CurrentVersion(dir)
	if err != nil {
		outcome.Status = StatusFailed
		return false, fmt.Errorf("failed to read recipe for %s: %w", req.Feedstock, err)
	}
	if current == "" {
		logger.Warn("Could not determine current version, proceeding with update",
			zap.String("feedstock", req.Feedstock),
			zap.String("series", string(req.Series)))
		return true, nil
	}
	outcome.Current = current

	decision, err := version.Decide(req.Series, current, req.Latest)
	if err != nil {
		outcome.Status = StatusFailed
		return false, fmt.Errorf("feedstock %s series %s: %w", req.Feedstock, req.Series, err)
	}
	if !decision.NeedsUpdate {
		logger.Info("Feedstock is up to date",
			zap.String("feedstock", req.Feedstock),
			zap.String("series", string(req.Series)),
			zap.String("version", current))
		outcome.Status = StatusUpToDate
		return false, nil
	}

	logger.Info("Update available",
		zap.String("feedstock", req.Feedstock),
		zap.String("series", string(req.Series)),
		zap.String("from", current),
		zap.String("to", outcome.Latest))
	return true, nil
}

// applyUpdate performs the side-effecting half of the workflow: branch,
// recipe rewrite, rerender, push, pull request.
func (u *updater) applyUpdate(ctx context.Context, dir, seriesBranch string, req Request) (string, error) {
	logger := logging.C(ctx)
	newVersion := req.Latest.Version.String()
	updateBranch := fmt.Sprintf("update-%s", newVersion)

	err := u.git.CreateBranch(ctx, gitrepo.CreateBranchParams{Dir: dir, Name: updateBranch})
	if err != nil {
		return "", fmt.Errorf("failed to create branch %s: %w", updateBranch, err)
	}

	sums, err := req.Checksums.Fetch(ctx, newVersion)
	if err != nil {
		logger.Warn("Failed to fetch checksums, continuing without hash update",
			zap.String("feedstock", req.Feedstock),
			zap.Error(err))
		sums = nil
	}

	changed, err := recipe.Rewrite(dir, recipe.Update{
		Version:   newVersion,
		Name:      req.Ecosystem.Name,
		Checksums: sums,
	})
	if err != nil {
		return "", fmt.Errorf("failed to rewrite recipe: %w", err)
	}
	if len(changed) == 0 {
		return "", fmt.Errorf("recipe rewrite produced no changes for %s", req.Feedstock)
	}

	err = u.git.Commit(ctx, gitrepo.CommitParams{
		Dir:     dir,
		Paths:   changed,
		Message: fmt.Sprintf("Update to %s", newVersion),
		Author:  u.author,
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit recipe changes: %w", err)
	}

	u.rerenderAndCommit(ctx, dir, req.Feedstock)

	err = u.git.Push(ctx, gitrepo.PushParams{Dir: dir, Branch: updateBranch, Token: u.token})
	if err != nil {
		return "", fmt.Errorf("failed to push %s: %w", updateBranch, err)
	}

	return u.openPullRequest(ctx, seriesBranch, updateBranch, newVersion, req)
}

// rerenderAndCommit runs conda-smithy and commits its output when it
// produced any. Rerender failure is a warning, not a failure: the PR is
// still useful without it.
func (u *updater) rerenderAndCommit(ctx context.Context, dir, feedstock string) {
	logger := logging.C(ctx)

	if err := u.rerender.Rerender(ctx, dir); err != nil {
		logger.Warn("conda-smithy rerender failed, continuing",
			zap.String("feedstock", feedstock),
			zap.Error(err))
		return
	}

	hasChanges, err := u.git.HasChanges(ctx, dir)
	if err != nil {
		logger.Warn("Failed to check for rerender changes",
			zap.String("feedstock", feedstock),
			zap.Error(err))
		return
	}
	if !hasChanges {
		return
	}

	err = u.git.Commit(ctx, gitrepo.CommitParams{
		Dir:     dir,
		Message: "MNT: Re-rendered with conda-smithy",
		Author:  u.author,
	})
	if err != nil {
		logger.Warn("Failed to commit rerender changes",
			zap.String("feedstock", feedstock),
			zap.Error(err))
	}
}

func (u *updater) openPullRequest(ctx context.Context, seriesBranch, updateBranch, newVersion string, req Request) (string, error) {
	title := fmt.Sprintf("Update to %s", newVersion)
	if req.Ecosystem.PRTitle != "" {
		title = fmt.Sprintf(req.Ecosystem.PRTitle, newVersion)
	}
	body := fmt.Sprintf(`This PR updates the %s version to %s.

Changes:
- Updated version to %s
- Updated source tarball sha256
- Reset build number to 0
- Re-rendered with conda-smithy
`, req.Ecosystem.Name, newVersion, newVersion)

	var labels []string
	if req.Ecosystem.Automerge {
		labels = append(labels, "automerge")
	}

	prURL, err := u.client.CreatePullRequest(ctx, github.CreatePullRequestParams{
		Owner:  upstreamOwner,
		Repo:   req.Feedstock,
		Title:  title,
		Body:   body,
		Head:   fmt.Sprintf("%s:%s", u.forkOwner, updateBranch),
		Base:   seriesBranch,
		Labels: labels,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create pull request: %w", err)
	}

	logging.C(ctx).Info("Pull request created",
		zap.String("feedstock", req.Feedstock),
		zap.String("series_branch", seriesBranch),
		zap.String("pr_url", prURL))
	return prURL, nil
}
