//go:build unit
// +build unit

package feedstock

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lerenn/feedsync/pkg/adapters/github"
	"github.com/lerenn/feedsync/pkg/adapters/gitrepo"
	"github.com/lerenn/feedsync/pkg/checksum"
	"github.com/lerenn/feedsync/pkg/config"
	"github.com/lerenn/feedsync/pkg/version"
)

type testUpdater struct {
	Updater   Updater
	Client    *github.MockClient
	Git       *gitrepo.MockGit
	Rerender  *MockRerenderer
	Checksums *checksum.MockProvider
	Workdir   string
}

func newTestUpdater(t *testing.T, ctrl *gomock.Controller, dryRun bool) *testUpdater {
	workdir := t.TempDir()
	client := github.NewMockClient(ctrl)
	git := gitrepo.NewMockGit(ctrl)
	rerender := NewMockRerenderer(ctrl)

	return &testUpdater{
		Updater: NewUpdater(UpdaterParams{
			Client:    client,
			Git:       git,
			Rerender:  rerender,
			ForkOwner: "someuser",
			Workdir:   workdir,
			Author:    gitrepo.Author{Name: "Feedsync Bot", Email: "feedsync@example.com"},
			Token:     "token",
			DryRun:    dryRun,
		}),
		Client:    client,
		Git:       git,
		Rerender:  rerender,
		Checksums: checksum.NewMockProvider(ctrl),
		Workdir:   workdir,
	}
}

const goMetaYAML = `{% set version = "1.20.13" %}

package:
  name: go
  version: {{ version }}

source:
  - url: https://dl.google.com/go/go{{ version }}.src.tar.gz
    sha256: 0fe745c530f2f600d9d72e761f3bd53f47479a2bad310c8cd245a44dc778989f

build:
  number: 3
`

func writeFeedstockRecipe(t *testing.T, workdir, feedstock, content string) {
	t.Helper()
	dir := filepath.Join(workdir, feedstock, "recipe")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.yaml"), []byte(content), 0644))
}

func goRequest(tc *testUpdater) Request {
	return Request{
		Ecosystem: config.Ecosystem{
			Name:      "go",
			TagPrefix: "go", SeriesParts: 2,
			PRTitle:   "Update to Go %s",
			Automerge: true,
		},
		Feedstock: "go-feedstock",
		Series:    "1.20",
		Latest:    version.Candidate{Tag: "go1.20.14", Version: semver.MustParse("1.20.14")},
		Checksums: tc.Checksums,
	}
}

func expectPrepare(tc *testUpdater) {
	tc.Client.EXPECT().CreateFork(gomock.Any(), "conda-forge", "go-feedstock").Return("", nil)
	tc.Git.EXPECT().Clone(gomock.Any(), gitrepo.CloneParams{
		Dir:         filepath.Join(tc.Workdir, "go-feedstock"),
		OriginURL:   "https://github.com/someuser/go-feedstock.git",
		UpstreamURL: "https://github.com/conda-forge/go-feedstock.git",
		Token:       "token",
	}).Return(nil)
}

func TestUpdate_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tc := newTestUpdater(t, ctrl, true)
	writeFeedstockRecipe(t, tc.Workdir, "go-feedstock", goMetaYAML)

	expectPrepare(tc)
	tc.Git.EXPECT().CheckoutSeriesBranch(gomock.Any(), gitrepo.CheckoutSeriesBranchParams{
		Dir:    filepath.Join(tc.Workdir, "go-feedstock"),
		Branch: "1.20.x",
	}).Return(nil)

	outcome, err := tc.Updater.Update(context.Background(), goRequest(tc))
	require.NoError(t, err)
	assert.Equal(t, StatusWouldUpdate, outcome.Status)
	assert.Equal(t, "1.20.13", outcome.Current)
	assert.Equal(t, "1.20.14", outcome.Latest)

	// Dry run leaves the recipe untouched.
	content, err := os.ReadFile(filepath.Join(tc.Workdir, "go-feedstock", "recipe", "meta.yaml"))
	require.NoError(t, err)
	assert.Equal(t, goMetaYAML, string(content))
}

func TestUpdate_UpToDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tc := newTestUpdater(t, ctrl, false)
	writeFeedstockRecipe(t, tc.Workdir, "go-feedstock",
		strings.ReplaceAll(goMetaYAML, "1.20.13", "1.20.14"))

	expectPrepare(tc)
	tc.Git.EXPECT().CheckoutSeriesBranch(gomock.Any(), gomock.Any()).Return(nil)

	outcome, err := tc.Updater.Update(context.Background(), goRequest(tc))
	require.NoError(t, err)
	assert.Equal(t, StatusUpToDate, outcome.Status)
}

func TestUpdate_SeriesBranchMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tc := newTestUpdater(t, ctrl, false)

	expectPrepare(tc)
	tc.Git.EXPECT().CheckoutSeriesBranch(gomock.Any(), gomock.Any()).
		Return(gitrepo.ErrBranchNotFound)

	outcome, err := tc.Updater.Update(context.Background(), goRequest(tc))
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, outcome.Status)
}

func TestUpdate_MalformedPin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tc := newTestUpdater(t, ctrl, false)
	writeFeedstockRecipe(t, tc.Workdir, "go-feedstock",
		strings.ReplaceAll(goMetaYAML, "1.20.13", "one.twenty"))

	expectPrepare(tc)
	tc.Git.EXPECT().CheckoutSeriesBranch(gomock.Any(), gomock.Any()).Return(nil)

	outcome, err := tc.Updater.Update(context.Background(), goRequest(tc))
	require.Error(t, err)
	assert.ErrorIs(t, err, version.ErrMalformedPin)
	assert.Equal(t, StatusFailed, outcome.Status)
}

func TestUpdate_FullWorkflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tc := newTestUpdater(t, ctrl, false)
	writeFeedstockRecipe(t, tc.Workdir, "go-feedstock", goMetaYAML)
	dir := filepath.Join(tc.Workdir, "go-feedstock")

	newSum := strings.Repeat("ab", 32)

	expectPrepare(tc)
	tc.Git.EXPECT().CheckoutSeriesBranch(gomock.Any(), gomock.Any()).Return(nil)
	tc.Git.EXPECT().CreateBranch(gomock.Any(), gitrepo.CreateBranchParams{
		Dir:  dir,
		Name: "update-1.20.14",
	}).Return(nil)
	tc.Checksums.EXPECT().Fetch(gomock.Any(), "1.20.14").Return(map[string]string{
		"https://dl.google.com/go/go1.20.14.src.tar.gz": newSum,
	}, nil)
	tc.Git.EXPECT().Commit(gomock.Any(), gitrepo.CommitParams{
		Dir:     dir,
		Paths:   []string{filepath.Join("recipe", "meta.yaml")},
		Message: "Update to 1.20.14",
		Author:  gitrepo.Author{Name: "Feedsync Bot", Email: "feedsync@example.com"},
	}).Return(nil)
	tc.Rerender.EXPECT().Rerender(gomock.Any(), dir).Return(nil)
	tc.Git.EXPECT().HasChanges(gomock.Any(), dir).Return(true, nil)
	tc.Git.EXPECT().Commit(gomock.Any(), gitrepo.CommitParams{
		Dir:     dir,
		Message: "MNT: Re-rendered with conda-smithy",
		Author:  gitrepo.Author{Name: "Feedsync Bot", Email: "feedsync@example.com"},
	}).Return(nil)
	tc.Git.EXPECT().Push(gomock.Any(), gitrepo.PushParams{
		Dir:    dir,
		Branch: "update-1.20.14",
		Token:  "token",
	}).Return(nil)
	tc.Client.EXPECT().CreatePullRequest(gomock.Any(), github.CreatePullRequestParams{
		Owner: "conda-forge",
		Repo:  "go-feedstock",
		Title: "Update to Go 1.20.14",
		Body: `This PR updates the go version to 1.20.14.

Changes:
- Updated version to 1.20.14
- Updated source tarball sha256
- Reset build number to 0
- Re-rendered with conda-smithy
`,
		Head:   "someuser:update-1.20.14",
		Base:   "1.20.x",
		Labels: []string{"automerge"},
	}).Return("https://github.com/conda-forge/go-feedstock/pull/42", nil)

	outcome, err := tc.Updater.Update(context.Background(), goRequest(tc))
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, outcome.Status)
	assert.Equal(t, "https://github.com/conda-forge/go-feedstock/pull/42", outcome.PRURL)

	content, err := os.ReadFile(filepath.Join(dir, "recipe", "meta.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `{% set version = "1.20.14" %}`)
	assert.Contains(t, string(content), "sha256: "+newSum)
	assert.Contains(t, string(content), "number: 0")
}

func TestUpdate_RerenderFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tc := newTestUpdater(t, ctrl, false)
	writeFeedstockRecipe(t, tc.Workdir, "go-feedstock", goMetaYAML)
	dir := filepath.Join(tc.Workdir, "go-feedstock")

	expectPrepare(tc)
	tc.Git.EXPECT().CheckoutSeriesBranch(gomock.Any(), gomock.Any()).Return(nil)
	tc.Git.EXPECT().CreateBranch(gomock.Any(), gomock.Any()).Return(nil)
	tc.Checksums.EXPECT().Fetch(gomock.Any(), "1.20.14").Return(nil, assert.AnError)
	tc.Git.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
	tc.Rerender.EXPECT().Rerender(gomock.Any(), dir).Return(assert.AnError)
	tc.Git.EXPECT().Push(gomock.Any(), gomock.Any()).Return(nil)
	tc.Client.EXPECT().CreatePullRequest(gomock.Any(), gomock.Any()).
		Return("https://github.com/conda-forge/go-feedstock/pull/43", nil)

	outcome, err := tc.Updater.Update(context.Background(), goRequest(tc))
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, outcome.Status)
}
