package cli

import (
	"context"
	"fmt"

	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"

	flag "github.com/spf13/pflag"
)

// DelCmd returns the del command.
func DelCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("del", flag.ContinueOnError),
		Usage: "del <path> <key>",
		Short: "Remove a key if present",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execDel(io, cfg, args)
		},
	}
}

func execDel(io *IO, cfg config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: del <path> <key>", hashfile.ErrBadArgument)
	}

	return withEngine(cfg, args[0], func(e *hashfile.Engine) error {
		deleted, ok, err := e.Delete([]byte(args[1]))
		if err != nil {
			return err
		}
		if !ok {
			io.Println("not found")
			return nil
		}
		deleted.Release(e.Pool())

		io.Println("deleted")

		return nil
	})
}
