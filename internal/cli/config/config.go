package config

import (
	"time"

	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
)

// Config holds runtime settings for the CLI.
//
// Timeout bounds each command; zero means no limit. ClientIP, when set, is
// forwarded on uploads.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	ClientIP string
	LogLevel string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = vault.DefaultBaseURL
	c.Timeout = 0
	c.ClientIP = ""
	c.LogLevel = "warn"
}

// GlobalFlags lists the flags consumed by Load; everything else belongs to
// the subcommand.
var GlobalFlags = []string{"-c", "-config", "--config", "-u", "-t", "-ip", "-log"}

// Load builds a Config from defaults, the JSON file named in args (if any)
// and the global flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
