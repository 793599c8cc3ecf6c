package cli

import (
	"context"
	"fmt"

	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"

	flag "github.com/spf13/pflag"
)

// GetCmd returns the get command.
func GetCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("get", flag.ContinueOnError),
		Usage: "get <path> <key>",
		Short: "Print the value for a key",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execGet(io, cfg, args)
		},
	}
}

func execGet(io *IO, cfg config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: get <path> <key>", hashfile.ErrBadArgument)
	}

	return withEngine(cfg, args[0], func(e *hashfile.Engine) error {
		rec, ok, err := e.Query([]byte(args[1]))
		if err != nil {
			return err
		}
		if !ok {
			io.Println("not found")
			return nil
		}
		defer rec.Release(e.Pool())

		io.Printf("%s\n", rec.Value())

		return nil
	})
}
