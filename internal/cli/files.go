package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
)

func (a *App) upload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload", a.stderr)
	expires := fs.String("expires", "", "expiry such as 30m, 1h or 2d")
	hide := fs.Bool("hide", false, "hide the filename in the URL")
	once := fs.Bool("once", false, "delete the file after its first download")
	bucket := fs.String("bucket", "", "bucket token to upload into")
	name := fs.String("name", "", "filename to store (defaults to the file's base name)")
	password := newPasswordFlags(fs, "password", "password protecting the file")
	rest, err := parseArgs(fs, args, 1, 1, "[flags] <path|url|->")
	if err != nil {
		return err
	}
	pw, err := password.resolve(a.stderr)
	if err != nil {
		return err
	}

	opts := &vault.UploadOptions{
		Expires:     *expires,
		Password:    pw,
		BucketToken: *bucket,
	}
	if a.cfg != nil {
		opts.ClientIP = a.cfg.ClientIP
	}
	if *hide {
		opts.HideFilename = vault.Bool(true)
	}
	if *once {
		opts.OneTimeDownload = vault.Bool(true)
	}

	var src vault.UploadSource
	switch target := rest[0]; {
	case target == "-":
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("cli: read stdin: %w", err)
		}
		filename := *name
		if filename == "" {
			filename = "stdin"
		}
		src = vault.FileBytes{Data: data, Filename: filename}
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		src = vault.RemoteURL{URL: target}
	default:
		src = vault.FilePath{Path: target, Filename: *name}
	}

	rec, err := a.client.UploadFile(ctx, src, opts)
	if err != nil {
		return err
	}
	return a.printJSON(rec)
}

func (a *App) info(ctx context.Context, args []string) error {
	fs := newFlagSet("info", a.stderr)
	formatted := fs.Bool("formatted", false, "report the retention period as text")
	rest, err := parseArgs(fs, args, 1, 1, "[-formatted] <token>")
	if err != nil {
		return err
	}

	var opts *vault.FileInfoOptions
	if isSet(fs, "formatted") {
		opts = &vault.FileInfoOptions{Formatted: formatted}
	}
	rec, err := a.client.FileInfo(ctx, rest[0], opts)
	if err != nil {
		return err
	}
	return a.printJSON(rec)
}

func (a *App) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get", a.stderr)
	byName := fs.Bool("filename", false, "treat the argument as the path after /f/ instead of a token")
	out := fs.String("o", "", "output file (default stdout)")
	password := newPasswordFlags(fs, "password", "password of a protected file")
	rest, err := parseArgs(fs, args, 1, 1, "[flags] <token|filename>")
	if err != nil {
		return err
	}
	pw, err := password.resolve(a.stderr)
	if err != nil {
		return err
	}

	opts := vault.GetFileOptions{Password: pw}
	if *byName {
		opts.Filename = rest[0]
	} else {
		opts.Token = rest[0]
	}
	data, err := a.client.GetFile(ctx, opts)
	if err != nil {
		return err
	}
	return a.writeOutput(*out, data)
}

func (a *App) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", a.stderr)
	rest, err := parseArgs(fs, args, 1, 1, "<token>")
	if err != nil {
		return err
	}
	res, err := a.client.DeleteFile(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.printJSON(res)
}

func (a *App) modify(ctx context.Context, args []string) error {
	fs := newFlagSet("modify", a.stderr)
	password := newPasswordFlags(fs, "password", "new password (empty removes protection)")
	previous := newPasswordFlags(fs, "previous-password", "current password of a protected file")
	expiry := fs.String("expiry", "", "new expiry such as 1h or 2d (empty resets to the default)")
	hide := fs.Bool("hide", false, "hide (true) or show (false) the filename")
	rest, err := parseArgs(fs, args, 1, 1, "[flags] <token>")
	if err != nil {
		return err
	}

	payload := &vault.ModifyEntryPayload{}
	if isSet(fs, "password") || password.ask {
		pw, err := password.resolve(a.stderr)
		if err != nil {
			return err
		}
		payload.Password = vault.String(pw)
	}
	if isSet(fs, "previous-password") || previous.ask {
		pw, err := previous.resolve(a.stderr)
		if err != nil {
			return err
		}
		payload.PreviousPassword = vault.String(pw)
	}
	if isSet(fs, "expiry") {
		payload.CustomExpiry = vault.String(*expiry)
	}
	if isSet(fs, "hide") {
		payload.HideFilename = vault.Bool(*hide)
	}

	rec, err := a.client.ModifyEntry(ctx, rest[0], payload)
	if err != nil {
		return err
	}
	return a.printJSON(rec)
}
