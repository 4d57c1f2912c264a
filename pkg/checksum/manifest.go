package checksum

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ManifestProvider reads a SHASUMS256.txt-style manifest published per
// release (as nodejs.org does) and extracts the checksums of the configured
// target filenames.
type ManifestProvider struct {
	client     *http.Client
	urlPattern string
	// targets maps a platform label (e.g. "win-x64") to the manifest
	// filename pattern (e.g. "node-v{{ version }}-win-x64.zip").
	targets map[string]string
}

// NewManifestProvider creates a ManifestProvider. A nil client falls back to
// http.DefaultClient.
func NewManifestProvider(client *http.Client, urlPattern string, targets map[string]string) *ManifestProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &ManifestProvider{client: client, urlPattern: urlPattern, targets: targets}
}

// Fetch downloads the manifest for the version and returns the checksums of
// the target files, keyed by platform label. Targets missing from the
// manifest are simply absent from the result.
func (p *ManifestProvider) Fetch(ctx context.Context, version string) (map[string]string, error) {
	url := expand(p.urlPattern, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checksum manifest %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checksum manifest %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read checksum manifest %s: %w", url, err)
	}

	return p.parse(string(body), version), nil
}

// parse extracts target checksums from manifest lines of the form
// "<sha256>  <filename>".
func (p *ManifestProvider) parse(manifest, version string) map[string]string {
	wanted := make(map[string]string, len(p.targets))
	for label, pattern := range p.targets {
		wanted[expand(pattern, version)] = label
	}

	sums := make(map[string]string)
	for _, line := range strings.Split(manifest, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if label, ok := wanted[fields[1]]; ok {
			sums[label] = fields[0]
		}
	}
	return sums
}
