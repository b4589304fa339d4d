// Package cli provides the command-line interface for prefs.
// It exports Run() and RunWithHooks() to allow extension by wrapper projects.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/zot/prefs/internal/config"
	"github.com/zot/prefs/internal/registry"
)

// Version is reported by the version command.
const Version = "0.1.0"

// Hooks allows extending the CLI with additional commands.
type Hooks struct {
	// BeforeDispatch is called before command dispatch.
	// Return (handled=true, exitCode) to skip normal dispatch.
	BeforeDispatch func(command string, args []string) (handled bool, exitCode int)

	// CustomHelp returns additional help text to append.
	CustomHelp func() string

	// CustomVersion returns version info to append (optional).
	CustomVersion func() string
}

// Run executes the CLI with the given arguments.
// Returns exit code (0 = success, non-zero = error).
func Run(args []string) int {
	return RunWithHooks(args, nil)
}

// RunWithHooks executes CLI with extension hooks.
func RunWithHooks(args []string, hooks *Hooks) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{
		ctx:    ctx,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	return e.run(args, hooks)
}

// env is one invocation's context and streams.
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg   *config.Config
	prefs *registry.Preferences
}

func (e *env) run(args []string, hooks *Hooks) int {
	cfg, rest, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		e.printHelp(hooks)
		return 0
	}
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return 2
	}
	e.cfg = cfg

	if len(rest) < 1 {
		e.printHelp(hooks)
		return 1
	}

	command := rest[0]
	cmdArgs := rest[1:]

	// Let hooks intercept first
	if hooks != nil && hooks.BeforeDispatch != nil {
		if handled, code := hooks.BeforeDispatch(command, cmdArgs); handled {
			return code
		}
	}

	var cmd func([]string) int
	switch command {
	case "get":
		cmd = e.runGet
	case "set":
		cmd = e.runSet
	case "rm":
		cmd = e.runRm
	case "dump":
		cmd = e.runDump
	case "path":
		cmd = e.runPath
	case "watch":
		cmd = e.runWatch
	case "counter":
		cmd = e.runCounter
	case "help", "-h", "--help":
		e.printHelp(hooks)
		return 0
	case "version", "--version":
		e.printVersion(hooks)
		return 0
	default:
		fmt.Fprintf(e.stderr, "Unknown command: %s\n", command)
		e.printHelp(hooks)
		return 1
	}

	if code := e.open(); code != 0 {
		return code
	}
	defer e.prefs.Close()
	return cmd(cmdArgs)
}

// open builds the registry described by the configuration.
func (e *env) open() int {
	log, err := config.NewLogger(e.cfg.Logging)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return 2
	}
	e.prefs, err = registry.FromConfig(e.cfg, log)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func (e *env) printHelp(hooks *Hooks) {
	fmt.Fprintln(e.stdout, `Preferences store

Usage: prefs [options] <command> [arguments]

Commands:
  get <file> <key>          Print a value (TOML syntax)
  set <file> <key> <value>  Set a value given in TOML syntax and save
  rm <file> <key>           Remove a value and save
  dump <file>               Print a whole file (--format toml, json, yaml)
  path [file]               Print where preferences are stored
  watch [file...]           Print files when they change on disk
  counter [file]            Count with + and - lines on stdin, autosaving
  help                      Show this help
  version                   Show the version

Keys are dotted paths of groups ending in a value name: window.geometry.size

Options:
  --config          Configuration file (default: prefs.toml)
  --app             Application id, e.g. com.example.myapp
  --backend         Storage backend: fs, kv (default: platform)
  --dir             Preferences directory (fs backend)
  --format          File format: toml, json, yaml (fs backend)
  --medium          Key/value medium: memory, sqlite, postgresql
  --storage-path    SQLite database path
  --storage-url     PostgreSQL connection URL
  --autosave-delay  Autosave debounce delay (default: 1s)
  --log-level       Log level: debug, info, warn, error
  -v                Verbosity (use -v, -vv, or -vvv)

Examples:
  prefs --app com.example.myapp set settings window.size "[800, 600]"
  prefs --app com.example.myapp get settings window.size
  prefs --app com.example.myapp dump settings --format json`)

	if hooks != nil && hooks.CustomHelp != nil {
		fmt.Fprintln(e.stdout, hooks.CustomHelp())
	}
}

func (e *env) printVersion(hooks *Hooks) {
	fmt.Fprintln(e.stdout, "prefs v"+Version)
	if hooks != nil && hooks.CustomVersion != nil {
		fmt.Fprintln(e.stdout, hooks.CustomVersion())
	}
}
