package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashkv/store/internal/config"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns exit code.
// sigCh can be nil if signal handling is not needed (e.g., in tests).
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globalFlags := flag.NewFlagSet("hashkv", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.Usage = func() {}
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagPoolSize := globalFlags.Int("pool-size", 0, "Override the buffer pool size")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut)

		return 1
	}

	workDir, err := os.Getwd()
	if err != nil {
		fprintln(errOut, "error:", err)
		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDir:    workDir,
		ConfigPath: *flagConfig,
		Env:        env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		printGlobalOptions(errOut)

		return 1
	}

	cmdIO := NewIO(out, errOut)

	if globalFlags.Changed("pool-size") {
		if *flagPoolSize > 0 {
			cfg.PoolSize = *flagPoolSize
		} else {
			cmdIO.Warn("--pool-size %d is not positive, ignoring override", *flagPoolSize)
		}
	}

	commands := allCommands(cfg)

	commandMap := make(map[string]*Command, len(commands))
	for _, cmd := range commands {
		commandMap[cmd.Name()] = cmd
	}

	commandAndArgs := globalFlags.Args()

	if *flagHelp || (len(commandAndArgs) == 0 && globalFlags.NFlag() == 0) {
		printUsage(out, commands)

		return 0
	}

	if len(commandAndArgs) == 0 {
		fprintln(errOut, "error: no command provided")
		printUsage(errOut, commands)

		return 1
	}

	cmdName := commandAndArgs[0]

	cmd, ok := commandMap[cmdName]
	if !ok {
		fprintln(errOut, "error: unknown command:", cmdName)
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)

	go func() {
		done <- cmd.Run(ctx, cmdIO, commandAndArgs[1:])
	}()

	select {
	case exitCode := <-done:
		if exitCode != 0 {
			return exitCode
		}

		return cmdIO.Finish()
	case <-sigCh:
		fprintln(errOut, "shutting down with 5s timeout...")
		cancel()
	}

	select {
	case <-done:
		fprintln(errOut, "graceful shutdown ok (130)")

		return 130
	case <-time.After(5 * time.Second):
		fprintln(errOut, "graceful shutdown timed out, forced exit (130)")

		return 130
	case <-sigCh:
		fprintln(errOut, "graceful shutdown interrupted, forced exit (130)")

		return 130
	}
}

// allCommands returns all commands in display order.
func allCommands(cfg config.Config) []*Command {
	return []*Command{
		CreateCmd(cfg),
		GetCmd(cfg),
		SetCmd(cfg),
		DelCmd(cfg),
		TsCmd(cfg),
		ShellCmd(cfg),
		ConfigCmd(cfg),
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

const globalOptionsHelp = `  -h, --help             Show help
  -c, --config <file>    Use specified config file
  --pool-size <n>        Override the buffer pool size`

func printGlobalOptions(w io.Writer) {
	fprintln(w, "Usage: hashkv [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, globalOptionsHelp)
	fprintln(w)
	fprintln(w, "Run 'hashkv --help' for a list of commands.")
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, "hashkv - a disk-backed hash table")
	fprintln(w)
	fprintln(w, "Usage: hashkv [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Flags:")
	fprintln(w, globalOptionsHelp)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
