package sandbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault/mock"
)

// HTTPFetcher downloads remote URL uploads with client, reading at most
// maxUploadSize bytes.
func HTTPFetcher(client *http.Client) mock.Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, rawURL string) ([]byte, string, error) {
		u, err := url.Parse(rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, "", fmt.Errorf("unsupported url %q", rawURL)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, "", fmt.Errorf("remote answered %s", resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadSize+1))
		if err != nil {
			return nil, "", err
		}
		if len(data) > maxUploadSize {
			return nil, "", fmt.Errorf("remote file exceeds %d bytes", maxUploadSize)
		}
		name := path.Base(u.Path)
		if name == "." || name == "/" {
			name = ""
		}
		return data, name, nil
	}
}
