//go:build unit
// +build unit

package migration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lerenn/feedsync/pkg/adapters/github"
	"github.com/lerenn/feedsync/pkg/config"
)

const pinningYAML = `aws_c_common:
  - '0.9.10'
aws_c_cal: 0.6.9
s2n:
  - '1.4.1'
zlib:
  - '1.3'
`

func TestExtractPins(t *testing.T) {
	pins, err := ExtractPins([]byte(pinningYAML), []string{"aws-c-common", "aws-c-cal", "s2n", "aws-c-io"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"aws-c-common": "0.9.10",
		"aws-c-cal":    "0.6.9", // scalar form
		"s2n":          "1.4.1",
	}, pins)
}

func TestAnacondaClient_LatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/package/conda-forge/aws-c-common", r.URL.Path)
		_, _ = w.Write([]byte(`{"files": [
			{"version": "0.9.12", "labels": ["main"]},
			{"version": "0.9.14", "labels": ["main", "broken"]},
			{"version": "0.9.13", "labels": ["main"]},
			{"version": "0.9.9", "labels": []}
		]}`))
	}))
	defer srv.Close()

	client := NewAnacondaClient(srv.Client(), srv.URL)
	latest, err := client.LatestVersion(context.Background(), "aws-c-common")
	require.NoError(t, err)
	// 0.9.14 is broken, so 0.9.13 wins.
	assert.Equal(t, "0.9.13", latest)
}

func TestBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gh := github.NewMockClient(ctrl)
	anaconda := NewMockAnacondaClient(ctrl)

	pinning := config.PinningSource{
		Owner: "conda-forge",
		Repo:  "conda-forge-pinning-feedstock",
		Path:  "recipe/conda_build_config.yaml",
		Ref:   "main",
	}

	gh.EXPECT().GetFileContent(gomock.Any(), github.GetFileContentParams{
		Owner: "conda-forge",
		Repo:  "conda-forge-pinning-feedstock",
		Path:  "recipe/conda_build_config.yaml",
		Ref:   "main",
	}).Return([]byte(pinningYAML), nil)

	anaconda.EXPECT().LatestVersion(gomock.Any(), "aws-c-common").Return("0.9.12", nil)
	anaconda.EXPECT().LatestVersion(gomock.Any(), "aws-c-cal").Return("0.6.9", nil)
	anaconda.EXPECT().LatestVersion(gomock.Any(), "s2n").Return("", assert.AnError)

	gen := NewGenerator(gh, anaconda)
	bumps, doc, err := gen.Build(context.Background(), pinning,
		[]string{"aws-c-common", "aws-c-cal", "s2n"},
		Options{
			CommitMessage: "Rebuild for aws-c-* (quarterly bump)",
			BuildNumber:   1,
			Automerge:     true,
			Timestamp:     time.Unix(1700000000, 0),
		})
	require.NoError(t, err)

	// aws-c-cal is current and s2n failed; only aws-c-common is bumped.
	require.Equal(t, []Bump{{Package: "aws-c-common", From: "0.9.10", To: "0.9.12"}}, bumps)

	assert.Equal(t, `__migrator:
  build_number: 1
  commit_message: Rebuild for aws-c-* (quarterly bump)
  kind: version
  migration_number: 1
  exclude_pinned_pkgs: false
  automerge: true
migrator_ts: 1700000000
aws_c_common:
  - '0.9.12'
`, doc)
}

func TestRender_NoBumps(t *testing.T) {
	doc := Render(nil, Options{CommitMessage: "Rebuild", Timestamp: time.Unix(1, 0)})
	assert.Contains(t, doc, "kind: version")
	assert.Contains(t, doc, "migrator_ts: 1")
}
