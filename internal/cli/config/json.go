package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/waifuvault/waifuvault_sdk_go/internal/flagx"
	"github.com/waifuvault/waifuvault_sdk_go/internal/timex"
)

// JSONConfig is the on-disk form of Config. Timeout accepts "30s" or integer
// nanoseconds. Absent fields keep their previous value.
type JSONConfig struct {
	BaseURL  string          `json:"base_url"`
	Timeout  *timex.Duration `json:"timeout"`
	ClientIP string          `json:"client_ip"`
	LogLevel string          `json:"log_level"`
}

// parseJSON overlays cfg with the file given by -c or -config.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.ClientIP != "" {
		cfg.ClientIP = jc.ClientIP
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
