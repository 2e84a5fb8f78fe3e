// Package cli implements the waifuvault command line tool: one subcommand per
// vault operation, JSON results on stdout and binary payloads written to
// files or stdout.
package cli
