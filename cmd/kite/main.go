// Package main is the entry point for the kite editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/kite/internal/app"
	"github.com/dshills/kite/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: kite must run in a terminal")
		return 1
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-signals
		application.Interrupt()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags reads the command line. It returns flag.ErrHelp after printing
// the version or the usage.
func parseFlags(args []string, out io.Writer) (app.Options, error) {
	var opts app.Options
	var showVersion, readStdin bool

	fs := flag.NewFlagSet("kite", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.ConfigDir, "config", config.Dir(), "Configuration directory")
	fs.StringVar(&opts.ConfigDir, "c", config.Dir(), "Configuration directory (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.ReadOnly, "readonly", false, "Open files in read-only mode")
	fs.BoolVar(&opts.ReadOnly, "r", false, "Open files in read-only mode (shorthand)")
	fs.StringVar(&opts.FileType, "filetype", "", "Force the file type of opened files")
	fs.StringVar(&opts.FileType, "f", "", "Force the file type of opened files (shorthand)")
	fs.BoolVar(&readStdin, "stdin", false, "Read a document from standard input")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(out, "kite - a Lua-extensible terminal editor\n\n")
		fmt.Fprintf(out, "Usage: kite [options] [files...]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  kite                      Open with an empty document\n")
		fmt.Fprintf(out, "  kite main.go              Open a file\n")
		fmt.Fprintf(out, "  kite -r -f lua notes      Open a file read-only as Lua\n")
		fmt.Fprintf(out, "  ls | kite -stdin          Edit the output of a command\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(out, "kite %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", date)
		return opts, flag.ErrHelp
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	if readStdin {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return opts, fmt.Errorf("-stdin given but standard input is a terminal")
		}
		opts.Stdin = os.Stdin
	}

	opts.Files = fs.Args()
	opts.Version = version
	return opts, nil
}
