package migration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/lerenn/feedsync/pkg/adapters/github"
	"github.com/lerenn/feedsync/pkg/config"
	"github.com/lerenn/feedsync/pkg/logging"
)

// Bump records one package whose pin is behind the latest release.
type Bump struct {
	Package string
	From    string
	To      string
}

// Options controls the rendered migration document.
type Options struct {
	CommitMessage string
	BuildNumber   int
	Automerge     bool
	// Timestamp defaults to time.Now when zero.
	Timestamp time.Time
}

// Generator builds pinning migrations.
type Generator struct {
	gh       github.Client
	anaconda AnacondaClient
}

// NewGenerator creates a Generator.
func NewGenerator(gh github.Client, anaconda AnacondaClient) *Generator {
	return &Generator{gh: gh, anaconda: anaconda}
}

// Build fetches the pinning config, compares each requested package's pin
// against the latest anaconda.org release, and renders a migration document
// for the stale ones. A package that fails to resolve is logged and dropped;
// the migration covers the rest. Bumps keep the request order, so the output
// is stable across runs.
func (g *Generator) Build(
	ctx context.Context,
	pinning config.PinningSource,
	packages []string,
	opts Options,
) ([]Bump, string, error) {
	logger := logging.C(ctx)

	doc, err := g.gh.GetFileContent(ctx, github.GetFileContentParams{
		Owner: pinning.Owner,
		Repo:  pinning.Repo,
		Path:  pinning.Path,
		Ref:   pinning.Ref,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch pinning config: %w", err)
	}

	pins, err := ExtractPins(doc, packages)
	if err != nil {
		return nil, "", err
	}

	var bumps []Bump
	for _, pkg := range packages {
		current, ok := pins[pkg]
		if !ok {
			logger.Warn("Package has no pin, skipping", zap.String("package", pkg))
			continue
		}

		latest, err := g.anaconda.LatestVersion(ctx, pkg)
		if err != nil {
			logger.Warn("Failed to resolve latest version, skipping",
				zap.String("package", pkg),
				zap.Error(err))
			continue
		}

		stale, err := isStale(current, latest)
		if err != nil {
			logger.Warn("Could not compare versions, skipping",
				zap.String("package", pkg),
				zap.String("current", current),
				zap.String("latest", latest),
				zap.Error(err))
			continue
		}
		if !stale {
			logger.Info("Pin is current",
				zap.String("package", pkg),
				zap.String("version", current))
			continue
		}

		logger.Info("Update available",
			zap.String("package", pkg),
			zap.String("from", current),
			zap.String("to", latest))
		bumps = append(bumps, Bump{Package: pkg, From: current, To: latest})
	}

	return bumps, Render(bumps, opts), nil
}

func isStale(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("current pin %q: %w", current, err)
	}
	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("latest %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}

// Render produces the migration YAML document. The layout matches what
// conda-forge's migration bot expects, so it is written out literally rather
// than marshaled.
func Render(bumps []Bump, opts Options) string {
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString("__migrator:\n")
	fmt.Fprintf(&b, "  build_number: %d\n", opts.BuildNumber)
	fmt.Fprintf(&b, "  commit_message: %s\n", opts.CommitMessage)
	b.WriteString("  kind: version\n")
	b.WriteString("  migration_number: 1\n")
	b.WriteString("  exclude_pinned_pkgs: false\n")
	fmt.Fprintf(&b, "  automerge: %t\n", opts.Automerge)
	fmt.Fprintf(&b, "migrator_ts: %d\n", ts.Unix())

	for _, bump := range bumps {
		key := strings.ReplaceAll(bump.Package, "-", "_")
		fmt.Fprintf(&b, "%s:\n  - '%s'\n", key, bump.To)
	}
	return b.String()
}
