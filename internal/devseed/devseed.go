// Package devseed loads seed files used to prefill the in-memory vault for
// local development and sandboxing.
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileSeed describes one file to preload. Content is base64 encoded. Token is
// optional; a random one is generated when empty. Files sharing a Bucket value
// end up in the same bucket.
type FileSeed struct {
	Token           string `json:"token,omitempty"`
	Filename        string `json:"filename"`
	Base64          string `json:"base64"`
	Password        string `json:"password,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	Expires         string `json:"expires,omitempty"`
	HideFilename    bool   `json:"hideFilename,omitempty"`
	OneTimeDownload bool   `json:"oneTimeDownload,omitempty"`
}

// LoadFileSeed reads a JSON array of FileSeed entries from path.
func LoadFileSeed(path string) ([]FileSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	return ParseFileSeed(data)
}

// ParseFileSeed decodes a JSON array of FileSeed entries and checks that each
// one names a file.
func ParseFileSeed(data []byte) ([]FileSeed, error) {
	var entries []FileSeed
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("devseed: decode file seed: %w", err)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Filename) == "" {
			return nil, fmt.Errorf("devseed: entry %d missing filename", i)
		}
	}
	return entries, nil
}
