//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=anaconda.go -destination=mock.gen.go -package=migration

// Package migration generates conda-forge pinning migrations by comparing
// the global pinning file against the latest packages on anaconda.org.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Masterminds/semver/v3"
)

// DefaultAnacondaBaseURL is the public anaconda.org API endpoint.
const DefaultAnacondaBaseURL = "https://api.anaconda.org"

// AnacondaClient looks up conda-forge package versions on anaconda.org.
type AnacondaClient interface {
	LatestVersion(ctx context.Context, pkg string) (string, error)
}

type anacondaClient struct {
	client  *http.Client
	baseURL string
}

// NewAnacondaClient creates an AnacondaClient. Nil client and empty baseURL
// fall back to http.DefaultClient and the public API.
func NewAnacondaClient(client *http.Client, baseURL string) AnacondaClient {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultAnacondaBaseURL
	}
	return &anacondaClient{client: client, baseURL: baseURL}
}

type packageFile struct {
	Version string   `json:"version"`
	Labels  []string `json:"labels"`
}

type packageInfo struct {
	Files []packageFile `json:"files"`
}

// LatestVersion returns the greatest published version of a conda-forge
// package, excluding files labeled broken.
func (c *anacondaClient) LatestVersion(ctx context.Context, pkg string) (string, error) {
	url := fmt.Sprintf("%s/package/conda-forge/%s", c.baseURL, pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query anaconda.org for %s: %w", pkg, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anaconda.org %s: unexpected status %d", pkg, resp.StatusCode)
	}

	var info packageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode anaconda.org response for %s: %w", pkg, err)
	}

	var latest *semver.Version
	var latestRaw string
	for _, file := range info.Files {
		if hasLabel(file.Labels, "broken") {
			continue
		}
		v, err := semver.NewVersion(file.Version)
		if err != nil {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
			latestRaw = file.Version
		}
	}
	if latest == nil {
		return "", fmt.Errorf("no usable versions found for %s", pkg)
	}
	return latestRaw, nil
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
