package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/KilianKilmister/env-cmd/procenv"
)

// Exit codes for failures that happen before the child runs.
const (
	ExitCannotExecute = 126
	ExitNotFound      = 127
)

// DefaultSignals are forwarded to the child unless Launcher.Signals is set.
var DefaultSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

// Launcher spawns child processes.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Dir is the child's working directory. Empty inherits ours.
	Dir string

	// Signals are relayed to the child while it runs. Empty means DefaultSignals.
	Signals []os.Signal

	Logger *slog.Logger
}

// New creates a Launcher wired to the standard streams.
func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Signals: DefaultSignals,
		Logger:  logger,
	}
}

// Run starts spec and waits for it to exit, returning its exit code.
// A child killed by a signal yields 128 plus the signal number. Cancelling
// ctx sends SIGTERM to the child and keeps waiting for it.
func (l *Launcher) Run(ctx context.Context, spec Spec) (int, error) {
	name, args := spec.Argv()

	child := exec.Command(name, args...)
	child.Env = procenv.Environ(spec.Env)
	child.Dir = l.Dir
	child.Stdin = l.Stdin
	child.Stdout = l.Stdout
	child.Stderr = l.Stderr

	if err := child.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return ExitNotFound, fmt.Errorf("starting %s: %w", name, err)
		}
		return ExitCannotExecute, fmt.Errorf("starting %s: %w", name, err)
	}

	// Buffered so a signal arriving while the previous one is still being
	// relayed is not dropped.
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, l.signals()...)
	defer signal.Stop(signals)

	done := make(chan struct{})
	go l.forwardSignals(ctx, signals, child.Process, done)

	err := child.Wait()
	close(done)

	return exitCode(err)
}

// forwardSignals relays signals to the child until done is closed.
// Send errors are ignored: the child may already have exited.
func (l *Launcher) forwardSignals(ctx context.Context, signals <-chan os.Signal, process *os.Process, done <-chan struct{}) {
	ctxDone := ctx.Done()
	for {
		select {
		case <-done:
			return
		case sig := <-signals:
			l.logger().Debug("forwarding signal to child", "signal", sig.String(), "pid", process.Pid)
			_ = process.Signal(sig)
		case <-ctxDone:
			l.logger().Debug("context cancelled, terminating child", "pid", process.Pid)
			_ = process.Signal(syscall.SIGTERM)
			ctxDone = nil
		}
	}
}

func (l *Launcher) signals() []os.Signal {
	if len(l.Signals) == 0 {
		return DefaultSignals
	}
	return l.Signals
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// exitCode converts the result of Wait into a process exit code.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, fmt.Errorf("waiting for child: %w", err)
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}
