package vault

import (
	"fmt"
	"os"
	"strings"
)

const (
	envVaultURL = "WAIFUVAULT_API_URL"
)

// NewFromEnv initialises an HTTP client for the vault named by
// WAIFUVAULT_API_URL, falling back to DefaultBaseURL.
func NewFromEnv(opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv(envVaultURL))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client, err := New(baseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("vault: init HTTP client: %w", err)
	}
	return client, nil
}
