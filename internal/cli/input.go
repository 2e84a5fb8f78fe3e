package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetPassword prompts on w and reads a password from the terminal without
// echo.
func GetPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// passwordFlags registers -password and -ask-password on fs.
type passwordFlags struct {
	value string
	ask   bool
	name  string
}

func newPasswordFlags(fs *flag.FlagSet, name, usage string) *passwordFlags {
	p := &passwordFlags{name: name}
	fs.StringVar(&p.value, name, "", usage)
	fs.BoolVar(&p.ask, "ask-"+name, false, "prompt for the "+strings.ReplaceAll(name, "-", " ")+" without echo")
	return p
}

// resolve returns the password, prompting when -ask-<name> was given.
func (p *passwordFlags) resolve(w io.Writer) (string, error) {
	if !p.ask {
		return p.value, nil
	}
	if p.value != "" {
		return "", fmt.Errorf("%w: -%s and -ask-%s are mutually exclusive", ErrUsage, p.name, p.name)
	}
	return GetPassword(w, "Enter "+strings.ReplaceAll(p.name, "-", " ")+": ")
}

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

// parseArgs parses fs and checks the positional argument count.
func parseArgs(fs *flag.FlagSet, args []string, minArgs, maxArgs int, synopsis string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	rest := fs.Args()
	if len(rest) < minArgs || (maxArgs >= 0 && len(rest) > maxArgs) {
		return nil, fmt.Errorf("%w: %s %s", ErrUsage, fs.Name(), synopsis)
	}
	return rest, nil
}

// isSet reports whether the named flag was given explicitly.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
