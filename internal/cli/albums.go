package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
)

const albumUsage = "album create|get|delete|associate|disassociate|share|revoke|download"

func (a *App) album(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s", ErrUsage, albumUsage)
	}
	sub, args := args[0], args[1:]

	switch sub {
	case "create":
		fs := newFlagSet("album create", a.stderr)
		bucket := fs.String("bucket", "", "bucket token the album belongs to")
		rest, err := parseArgs(fs, args, 1, 1, "-bucket <token> <name>")
		if err != nil {
			return err
		}
		rec, err := a.client.CreateAlbum(ctx, vault.AlbumCreateBody{Name: rest[0], BucketToken: *bucket})
		if err != nil {
			return err
		}
		return a.printJSON(rec)

	case "get":
		rest, err := parseArgs(newFlagSet("album get", a.stderr), args, 1, 1, "<token>")
		if err != nil {
			return err
		}
		rec, err := a.client.GetAlbum(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.printJSON(rec)

	case "delete":
		fs := newFlagSet("album delete", a.stderr)
		files := fs.Bool("files", false, "delete the album's files as well")
		rest, err := parseArgs(fs, args, 1, 1, "[-files] <token>")
		if err != nil {
			return err
		}
		res, err := a.client.DeleteAlbum(ctx, rest[0], *files)
		if err != nil {
			return err
		}
		return a.printJSON(res)

	case "associate", "disassociate":
		rest, err := parseArgs(newFlagSet("album "+sub, a.stderr), args, 2, -1, "<album> <file-token>...")
		if err != nil {
			return err
		}
		op := a.client.AssociateFiles
		if sub == "disassociate" {
			op = a.client.DisassociateFiles
		}
		rec, err := op(ctx, rest[0], rest[1:])
		if err != nil {
			return err
		}
		return a.printJSON(rec)

	case "share":
		rest, err := parseArgs(newFlagSet("album share", a.stderr), args, 1, 1, "<token>")
		if err != nil {
			return err
		}
		url, err := a.client.ShareAlbum(ctx, rest[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, url)
		return err

	case "revoke":
		rest, err := parseArgs(newFlagSet("album revoke", a.stderr), args, 1, 1, "<token>")
		if err != nil {
			return err
		}
		res, err := a.client.RevokeAlbum(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.printJSON(res)

	case "download":
		fs := newFlagSet("album download", a.stderr)
		out := fs.String("o", "", "output zip file (default stdout)")
		ids := fs.String("ids", "", "comma-separated file ids (default all)")
		rest, err := parseArgs(fs, args, 1, 1, "[-o file] [-ids 1,2] <token>")
		if err != nil {
			return err
		}
		fileIDs, err := parseIDs(*ids)
		if err != nil {
			return err
		}
		data, err := a.client.DownloadAlbum(ctx, rest[0], fileIDs)
		if err != nil {
			return err
		}
		return a.writeOutput(*out, data)

	default:
		return fmt.Errorf("%w: unknown album command %q", ErrUsage, sub)
	}
}

func parseIDs(raw string) ([]int64, error) {
	ids := []int64{}
	if strings.TrimSpace(raw) == "" {
		return ids, nil
	}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid file id %q", ErrUsage, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
