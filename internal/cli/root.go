// Package cli implements the env-cmd command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	envcmd "github.com/KilianKilmister/env-cmd"
	"github.com/KilianKilmister/env-cmd/envfile"
	"github.com/KilianKilmister/env-cmd/launcher"
	"github.com/KilianKilmister/env-cmd/procenv"
	"github.com/KilianKilmister/env-cmd/rcfile"
)

// Version is overridden by ldflags.
var Version = "dev"

// Streams are the standard streams of one invocation.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Config carries everything an invocation reads from its surroundings.
type Config struct {
	Streams Streams

	// Environ returns the process environment. Defaults to os.Environ.
	Environ func() []string

	// Dir resolves relative file paths. Empty means the working directory.
	Dir string
}

type flags struct {
	file         string
	fallback     bool
	rcFile       string
	environments []string
	noOverride   bool
	useShell     bool
	silent       bool
	verbose      bool
	expandEnvs   bool
	print        bool
	printFormat  string
	printSources bool
}

// app holds the state of one invocation.
type app struct {
	cfg      Config
	flags    flags
	exitCode int
}

// NewRootCommand builds the env-cmd command. The child's exit code is
// written to *exitCode after a successful run.
func NewRootCommand(cfg Config, exitCode *int) *cobra.Command {
	a := &app{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "env-cmd [options] <command> [args...]",
		Short: "Run a command with variables from env and rc files",
		Long: `env-cmd resolves environment variables from an env file or from named
environments of an rc file, merges them with the current process
environment and runs the given command with the result.

Default env files: ./.env, ./.env.json, ./.env.yaml, ./.env.yml, ./.env.toml
Default rc files:  ./.env-cmdrc, ./.env-cmdrc.json, ./.env-cmdrc.yaml,
                   ./.env-cmdrc.yml, ./.env-cmdrc.toml`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.run(cmd.Context(), args)
			*exitCode = code
			return err
		},
	}

	cmd.SetIn(cfg.Streams.Stdin)
	cmd.SetOut(cfg.Streams.Stdout)
	cmd.SetErr(cfg.Streams.Stderr)

	// Everything after the command belongs to the child.
	cmd.Flags().SetInterspersed(false)

	f := cmd.Flags()
	f.StringVarP(&a.flags.file, "file", "f", "", "env file path (default: scan the default env file paths)")
	f.BoolVar(&a.flags.fallback, "fallback", false, "fall back to ./.env when the --file path is missing")
	f.StringVarP(&a.flags.rcFile, "rc-file", "r", "", "rc file path (default: scan the default rc file paths)")
	f.StringSliceVarP(&a.flags.environments, "environments", "e", nil, "rc file environments to merge, in order (comma separated, repeatable)")
	f.BoolVar(&a.flags.noOverride, "no-override", false, "keep process values when a file sets the same variable")
	f.BoolVar(&a.flags.useShell, "use-shell", false, "run the command through the system shell")
	f.BoolVar(&a.flags.silent, "silent", false, "ignore missing or unreadable env and rc files")
	f.BoolVar(&a.flags.verbose, "verbose", false, "print resolution details to stderr")
	f.BoolVarP(&a.flags.expandEnvs, "expand-envs", "x", false, "expand $VAR and ${VAR} in the command and its arguments")
	f.BoolVar(&a.flags.print, "print", false, "print the resolved file variables instead of running a command")
	f.StringVar(&a.flags.printFormat, "print-format", "text", "format for --print: text, json or dotenv")
	f.BoolVar(&a.flags.printSources, "print-sources", false, "annotate --print output with the file that supplied each variable")

	return cmd
}

// Run executes env-cmd with args and returns the process exit code.
func Run(ctx context.Context, args []string, cfg Config) int {
	if cfg.Environ == nil {
		cfg.Environ = os.Environ
	}

	exitCode := 0
	cmd := NewRootCommand(cfg, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cfg.Streams.Stderr, "env-cmd: %v\n", err)
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func (a *app) run(ctx context.Context, args []string) (int, error) {
	req, err := a.request()
	if err != nil {
		return 1, err
	}

	dumpOpts, err := a.dumpOptions()
	if err != nil {
		return 1, err
	}

	if len(args) == 0 && !a.flags.print {
		return 1, errors.New("missing command to run")
	}

	logger := newLogger(a.cfg.Streams.Stderr, a.flags.verbose)

	loader := envcmd.NewLoader().
		WithEnvFileParser(envfile.New(envfile.Options{Dir: a.cfg.Dir})).
		WithRCFileParser(rcfile.New(rcfile.Options{Dir: a.cfg.Dir})).
		WithReporter(envcmd.LogReporter{Logger: logger}).
		Verbose(a.flags.verbose).
		Silent(a.flags.silent)

	res, err := loader.Load(ctx, req)
	if err != nil {
		return 1, err
	}

	if a.flags.print {
		if err := envcmd.DumpEffective(a.cfg.Streams.Stdout, res, dumpOpts...); err != nil {
			return 1, err
		}
		return 0, nil
	}

	spec := launcher.Prepare(res.Env, procenv.Parse(a.cfg.Environ()), args[0], args[1:], launcher.Options{
		NoOverride: a.flags.noOverride,
		ExpandEnvs: a.flags.expandEnvs,
		UseShell:   a.flags.useShell,
	})

	l := launcher.New(logger)
	l.Stdin = a.cfg.Streams.Stdin
	l.Stdout = a.cfg.Streams.Stdout
	l.Stderr = a.cfg.Streams.Stderr
	l.Dir = a.cfg.Dir

	return l.Run(ctx, spec)
}

// request maps the source flags to a load request.
func (a *app) request() (envcmd.Request, error) {
	var req envcmd.Request

	if a.flags.rcFile != "" && len(a.flags.environments) == 0 {
		return req, errors.New("--rc-file requires --environments")
	}

	if len(a.flags.environments) > 0 {
		req.RC = &envcmd.RCFileRequest{
			Path:         a.flags.rcFile,
			Environments: a.flags.environments,
		}
	}
	if a.flags.file != "" {
		req.EnvFile = &envcmd.EnvFileRequest{
			Path:     a.flags.file,
			Fallback: a.flags.fallback,
		}
	}
	return req, nil
}

func (a *app) dumpOptions() ([]envcmd.DumpOption, error) {
	var opts []envcmd.DumpOption

	switch a.flags.printFormat {
	case "", "text":
	case "json":
		opts = append(opts, envcmd.AsJSON())
	case "dotenv":
		opts = append(opts, envcmd.AsDotenv())
	default:
		return nil, fmt.Errorf("invalid --print-format %q (want text, json or dotenv)", a.flags.printFormat)
	}

	if a.flags.printSources {
		opts = append(opts, envcmd.WithSources())
	}
	return opts, nil
}

// newLogger writes to w without timestamps. Verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return attr
		},
	}))
}
