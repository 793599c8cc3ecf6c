package cli

import (
	"context"
	"fmt"

	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"

	flag "github.com/spf13/pflag"
)

// SetCmd returns the set command.
func SetCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("set", flag.ContinueOnError),
		Usage: "set <path> <key> <value>",
		Short: "Insert or overwrite a key",
		Long:  "Insert a new record, or overwrite an existing one while preserving its creation timestamp.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execSet(io, cfg, args)
		},
	}
}

func execSet(io *IO, cfg config.Config, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: usage: set <path> <key> <value>", hashfile.ErrBadArgument)
	}

	return withEngine(cfg, args[0], func(e *hashfile.Engine) error {
		if err := e.Insert([]byte(args[1]), []byte(args[2])); err != nil {
			return err
		}

		io.Println("ok")

		return nil
	})
}
