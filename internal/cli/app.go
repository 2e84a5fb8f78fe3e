package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/waifuvault/waifuvault_sdk_go/internal/cli/config"
	"github.com/waifuvault/waifuvault_sdk_go/internal/logging"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"upload": {"upload a file, stdin (-) or a URL", (*App).upload},
	"info":   {"show file metadata", (*App).info},
	"get":    {"download a file by token or filename", (*App).get},
	"delete": {"delete a file", (*App).delete},
	"modify": {"change password, expiry or filename visibility", (*App).modify},
	"bucket": {"create, get or delete buckets", (*App).bucket},
	"album":  {"manage albums", (*App).album},
}

// App runs CLI commands against a vault client.
type App struct {
	cfg    *config.Config
	client *vault.Client
	logger logging.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewApp builds an App talking to the vault configured in cfg.
func NewApp(cfg *config.Config) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("cli: %w", err)
	}
	logger := logging.NewText(os.Stderr, level)

	client, err := vault.New(cfg.BaseURL, vault.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("cli: %w", err)
	}
	app := NewAppWithClient(cfg, client, os.Stdin, os.Stdout, os.Stderr)
	app.logger = logger
	return app, nil
}

// NewAppWithClient builds an App around an existing client and streams.
func NewAppWithClient(cfg *config.Config, client *vault.Client, stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		cfg:    cfg,
		client: client,
		logger: logging.NewNop(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the subcommand named by args[0]. Global flags must already be
// removed from args.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return fmt.Errorf("%w: missing command", ErrUsage)
		}
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	if a.cfg != nil && a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	a.logger.Debug(ctx, "running command", "command", args[0])
	return cmd.run(a, ctx, args[1:])
}

func (a *App) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: waifuvault [-c config.json] [-u url] [-t seconds] [-ip addr] [-log level] <command> [flags] [args]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprint(a.stderr, b.String())
}

// printJSON writes v to stdout as indented JSON.
func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput stores data in path, or writes it to stdout when path is empty
// or "-".
func (a *App) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cli: write %s: %w", path, err)
	}
	fmt.Fprintf(a.stderr, "wrote %d bytes to %s\n", len(data), path)
	return nil
}
