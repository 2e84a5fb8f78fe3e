package cli

import (
	"context"
	"fmt"
)

func (a *App) bucket(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: bucket create|get <token>|delete <token>", ErrUsage)
	}
	sub, args := args[0], args[1:]

	switch sub {
	case "create":
		if _, err := parseArgs(newFlagSet("bucket create", a.stderr), args, 0, 0, ""); err != nil {
			return err
		}
		rec, err := a.client.CreateBucket(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(rec)
	case "get":
		rest, err := parseArgs(newFlagSet("bucket get", a.stderr), args, 1, 1, "<token>")
		if err != nil {
			return err
		}
		rec, err := a.client.GetBucket(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.printJSON(rec)
	case "delete":
		rest, err := parseArgs(newFlagSet("bucket delete", a.stderr), args, 1, 1, "<token>")
		if err != nil {
			return err
		}
		res, err := a.client.DeleteBucket(ctx, rest[0])
		if err != nil {
			return err
		}
		return a.printJSON(res)
	default:
		return fmt.Errorf("%w: unknown bucket command %q", ErrUsage, sub)
	}
}
