package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/lerenn/feedsync/pkg/logging"
)

// DownloadProvider streams each configured artifact and hashes it locally,
// for upstreams that do not publish a checksum manifest (Go tarballs).
type DownloadProvider struct {
	client *http.Client
	// artifacts are URL patterns with a version placeholder.
	artifacts []string
}

// NewDownloadProvider creates a DownloadProvider. A nil client falls back to
// http.DefaultClient.
func NewDownloadProvider(client *http.Client, artifacts []string) *DownloadProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &DownloadProvider{client: client, artifacts: artifacts}
}

// Fetch downloads every artifact for the version and returns their SHA-256
// checksums keyed by expanded URL. A failed artifact is logged and skipped;
// the remaining artifacts are still hashed.
func (p *DownloadProvider) Fetch(ctx context.Context, version string) (map[string]string, error) {
	sums := make(map[string]string)
	for _, pattern := range p.artifacts {
		url := expand(pattern, version)
		sum, err := p.hash(ctx, url)
		if err != nil {
			logging.C(ctx).Warn("Failed to hash artifact, skipping",
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		sums[url] = sum
	}
	return sums, nil
}

func (p *DownloadProvider) hash(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	h := sha256.New()
	if _, err := io.Copy(h, resp.Body); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
