package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"

	flag "github.com/spf13/pflag"
	"github.com/peterh/liner"
)

// ShellCmd returns the shell command: an interactive REPL over an
// already-created database.
func ShellCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell <path>",
		Short: "Open an interactive shell over a database",
		Long:  "Start a read-eval-print loop for put/get/del/ts against an existing database file.",
		Exec: func(_ context.Context, out *IO, args []string) error {
			return execShell(out, cfg, args)
		},
	}
}

func execShell(out *IO, cfg config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: usage: shell <path>", hashfile.ErrBadArgument)
	}

	return withEngine(cfg, args[0], func(e *hashfile.Engine) error {
		repl := &shellREPL{engine: e, path: args[0], out: out}
		return repl.run()
	})
}

// shellREPL is the interactive command loop over an open engine.
type shellREPL struct {
	engine *hashfile.Engine
	path   string
	out    *IO
	liner  *liner.State
}

func shellHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".hashkv_shell_history")
}

func (r *shellREPL) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(shellHistoryFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	r.out.Printf("hashkv shell - %s\n", r.path)
	r.out.Println("Type 'help' for available commands.")
	r.out.Println()

	for {
		line, err := r.liner.Prompt("hashkv> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				r.out.Println("bye")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "put", "set":
			r.cmdPut(args)
		case "get":
			r.cmdGet(args)
		case "del", "delete":
			r.cmdDel(args)
		case "ts":
			r.cmdTs(args)
		case "info":
			r.cmdInfo()
		default:
			r.out.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

func (r *shellREPL) saveHistory() {
	if path := shellHistoryFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *shellREPL) completer(line string) []string {
	commands := []string{"put", "set", "get", "del", "delete", "ts", "info", "help", "exit", "quit", "q"}

	var completions []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			completions = append(completions, c)
		}
	}

	return completions
}

func (r *shellREPL) printHelp() {
	r.out.Println("Commands:")
	r.out.Println("  put <key> <value>   Insert or overwrite a key")
	r.out.Println("  get <key>           Retrieve a key's value")
	r.out.Println("  del <key>           Delete a key")
	r.out.Println("  ts <key>            Show first/last timestamps")
	r.out.Println("  info                Show database info")
	r.out.Println("  help                Show this help")
	r.out.Println("  exit / quit / q     Exit")
}

func (r *shellREPL) cmdPut(args []string) {
	if len(args) < 2 {
		r.out.Println("usage: put <key> <value>")
		return
	}

	if err := r.engine.Insert([]byte(args[0]), []byte(strings.Join(args[1:], " "))); err != nil {
		r.out.Printf("error: %v\n", err)
		return
	}

	r.out.Println("ok")
}

func (r *shellREPL) cmdGet(args []string) {
	if len(args) < 1 {
		r.out.Println("usage: get <key>")
		return
	}

	rec, ok, err := r.engine.Query([]byte(args[0]))
	if err != nil {
		r.out.Printf("error: %v\n", err)
		return
	}
	if !ok {
		r.out.Println("not found")
		return
	}
	defer rec.Release(r.engine.Pool())

	r.out.Printf("%s\n", rec.Value())
}

func (r *shellREPL) cmdDel(args []string) {
	if len(args) < 1 {
		r.out.Println("usage: del <key>")
		return
	}

	deleted, ok, err := r.engine.Delete([]byte(args[0]))
	if err != nil {
		r.out.Printf("error: %v\n", err)
		return
	}
	if !ok {
		r.out.Println("not found")
		return
	}
	deleted.Release(r.engine.Pool())

	r.out.Println("deleted")
}

func (r *shellREPL) cmdTs(args []string) {
	if len(args) < 1 {
		r.out.Println("usage: ts <key>")
		return
	}

	rec, ok, err := r.engine.Query([]byte(args[0]))
	if err != nil {
		r.out.Printf("error: %v\n", err)
		return
	}
	if !ok {
		r.out.Println("not found")
		return
	}
	defer rec.Release(r.engine.Pool())

	r.out.Printf("first=%s\n", rec.FirstTS().Format())
	r.out.Printf("last=%s\n", rec.LastTS().Format())
}

func (r *shellREPL) cmdInfo() {
	r.out.Printf("path=%s\n", r.path)
}
