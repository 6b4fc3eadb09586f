package launcher

import (
	"runtime"
	"strings"

	envcmd "github.com/KilianKilmister/env-cmd"
	"github.com/KilianKilmister/env-cmd/internal/expand"
	"github.com/KilianKilmister/env-cmd/procenv"
)

// Options controls how the child environment and command line are built.
type Options struct {
	// NoOverride keeps process values when a file sets the same variable.
	NoOverride bool

	// ExpandEnvs replaces $NAME and ${NAME} in the command and its arguments.
	ExpandEnvs bool

	// UseShell runs the command line through the system shell.
	UseShell bool
}

// Spec is a fully prepared child process.
type Spec struct {
	Command  string
	Args     []string
	Env      envcmd.Environment
	UseShell bool
}

// Prepare merges fileEnv with the processEnv snapshot and builds the
// command line. Neither map is modified.
func Prepare(fileEnv, processEnv envcmd.Environment, command string, args []string, opts Options) Spec {
	precedence := procenv.FileOverrides
	if opts.NoOverride {
		precedence = procenv.ProcessOverrides
	}
	env := procenv.Merge(fileEnv, processEnv, precedence)

	args = append([]string(nil), args...)
	if opts.ExpandEnvs {
		lookup := expand.Map(env)
		command = expand.String(command, lookup)
		args = expand.Args(args, lookup)
	}

	return Spec{
		Command:  command,
		Args:     args,
		Env:      env,
		UseShell: opts.UseShell,
	}
}

// Argv returns the executable and arguments passed to the OS.
// With UseShell the command line is joined with spaces and handed to the shell.
func (s Spec) Argv() (string, []string) {
	if !s.UseShell {
		return s.Command, s.Args
	}

	line := strings.Join(append([]string{s.Command}, s.Args...), " ")
	if runtime.GOOS == "windows" {
		return "cmd.exe", []string{"/d", "/s", "/c", line}
	}
	return "/bin/sh", []string{"-c", line}
}
