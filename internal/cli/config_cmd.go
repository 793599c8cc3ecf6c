package cli

import (
	"context"

	"github.com/hashkv/store/internal/config"

	flag "github.com/spf13/pflag"
)

// ConfigCmd returns the config command.
func ConfigCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("config", flag.ContinueOnError),
		Usage: "config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration after merging defaults, the global config file, and the project config file (or the explicit --config file in its place).",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execConfig(io, cfg)
		},
	}
}

func execConfig(io *IO, cfg config.Config) error {
	out, err := config.FormatConfig(cfg)
	if err != nil {
		return err
	}

	io.Printf("%s\n", out)

	return nil
}
