package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"

	flag "github.com/spf13/pflag"
)

// CreateCmd returns the create command.
func CreateCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("create", flag.ContinueOnError),
		Usage: "create <path> <n>",
		Short: "Create a new database",
		Long:  "Create a new database file sized for roughly <n> records. Fails if <path> already exists.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execCreate(io, args)
		},
	}
}

func execCreate(io *IO, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: create <path> <n>", hashfile.ErrBadArgument)
	}

	path := args[0]

	n, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("%w: <n> must be a positive integer", hashfile.ErrBadArgument)
	}

	f, err := hashfile.CreateFile(path, n)
	if err != nil {
		return err
	}
	defer f.Close()

	io.Printf("created %s (%d pages)\n", path, f.PageCount())

	return nil
}
