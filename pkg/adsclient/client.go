// Package adsclient provides the main entry point for creating Ads API clients.
package adsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/ads-client/internal/client"
	"github.com/fivetwenty-io/ads-client/pkg/ads"
)

// New creates a new Ads API client. Endpoint overrides are normalized to an
// absolute URL without a trailing slash.
func New(ctx context.Context, config *ads.Config) (ads.Client, error) {
	if config == nil {
		return nil, ads.ErrConfigRequired
	}

	normalized := *config
	normalized.Endpoint = normalizeEndpoint(config.Endpoint)
	normalized.SandboxEndpoint = normalizeEndpoint(config.SandboxEndpoint)

	cli, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// normalizeEndpoint adds an https scheme when missing and trims the slash.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
