package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/waifuvault/waifuvault_sdk_go/internal/flagx"
)

// parseFlags overlays cfg with the global flags:
//
//	-u string   vault base URL
//	-t int      per-command timeout in seconds (0 disables it)
//	-ip string  client IP forwarded on uploads
//	-log string log level (debug, info, warn, error)
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-u", "-t", "-ip", "-log"})

	fs := flag.NewFlagSet("global", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "vault base URL")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "timeout in seconds")
	fs.StringVar(&cfg.ClientIP, "ip", cfg.ClientIP, "client IP to forward on uploads")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("config: parse flags: %w", err)
	}
	if *timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	cfg.Timeout = time.Duration(*timeout) * time.Second
	return nil
}
