package waifuvault_sdk

import (
	"fmt"
	"os"
	"strings"

	"github.com/waifuvault/waifuvault_sdk_go/internal/devseed"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
	vaultmock "github.com/waifuvault/waifuvault_sdk_go/pkg/vault/mock"
)

const (
	envMode     = "WAIFUVAULT_RUNTIME_MODE"
	envVaultURL = "WAIFUVAULT_API_URL"
	envMockSeed = "WAIFUVAULT_MOCK_SEED"
	modeAuto    = "auto"
	modeHTTP    = "http"
	modeMock    = "mock"
)

// NewFromEnv initialises a vault client based on environment variables. It
// returns the resolved mode ("http" or "mock"). Options apply to the HTTP
// transport only.
func NewFromEnv(opts ...vault.Option) (*vault.Client, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))
	vaultURL := strings.TrimSpace(os.Getenv(envVaultURL))

	switch mode {
	case "", modeAuto:
		if vaultURL != "" {
			return newHTTPClient(vaultURL, opts)
		}
		return newMockClient()
	case modeHTTP:
		if vaultURL == "" {
			vaultURL = vault.DefaultBaseURL
		}
		return newHTTPClient(vaultURL, opts)
	case modeMock:
		return newMockClient()
	default:
		return nil, "", fmt.Errorf("waifuvault_sdk: unsupported %s value %q", envMode, mode)
	}
}

func newHTTPClient(vaultURL string, opts []vault.Option) (*vault.Client, string, error) {
	client, err := vault.New(vaultURL, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("waifuvault_sdk: init vault HTTP client: %w", err)
	}
	return client, modeHTTP, nil
}

func newMockClient() (*vault.Client, string, error) {
	m := vaultmock.New()
	if path := strings.TrimSpace(os.Getenv(envMockSeed)); path != "" {
		entries, err := devseed.LoadFileSeed(path)
		if err != nil {
			return nil, "", fmt.Errorf("waifuvault_sdk: load vault seed: %w", err)
		}
		if err := m.Seed(entries); err != nil {
			return nil, "", fmt.Errorf("waifuvault_sdk: apply vault seed: %w", err)
		}
	}
	return vault.NewWithBackend(m), modeMock, nil
}
