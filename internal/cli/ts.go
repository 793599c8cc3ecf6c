package cli

import (
	"context"
	"fmt"

	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"

	flag "github.com/spf13/pflag"
)

// TsCmd returns the ts command.
func TsCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ts", flag.ContinueOnError),
		Usage: "ts <path> <key>",
		Short: "Print a key's first/last timestamps",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execTs(io, cfg, args)
		},
	}
}

func execTs(io *IO, cfg config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: ts <path> <key>", hashfile.ErrBadArgument)
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

		io.Printf("first=%s\n", rec.FirstTS().Format())
		io.Printf("last=%s\n", rec.LastTS().Format())

		return nil
	})
}
