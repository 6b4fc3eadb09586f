package envcmd

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// Environment is a flat mapping of variable names to values.
type Environment map[string]string

// Keys returns the variable names in sorted order.
func (e Environment) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// Clone returns a shallow copy. A nil Environment clones to an empty one.
func (e Environment) Clone() Environment {
	out := make(Environment, len(e))
	maps.Copy(out, e)
	return out
}

// EnvFileRequest asks for variables from a plain env file.
type EnvFileRequest struct {
	// Path is the explicit file path. Empty scans the default paths.
	Path string

	// Fallback retries the conventional ./.env once when Path cannot be found.
	Fallback bool
}

// RCFileRequest asks for variables from named environments of an rc file.
type RCFileRequest struct {
	// Path is the explicit rc file path. Empty scans the default paths.
	Path string

	// Environments are merged in order over the optional "base" section.
	Environments []string
}

// Request lists the sources to resolve. A nil field means "not requested".
// When both are nil the default env file scan is used.
type Request struct {
	EnvFile *EnvFileRequest
	RC      *RCFileRequest
}

// EnvFileParser reads one env file into a flat map.
// Implementations wrap ErrNotFound when the file cannot be read and ErrParse
// when its content is malformed.
type EnvFileParser interface {
	ParseEnvFile(ctx context.Context, path string) (map[string]string, error)
}

// RCFileParser reads the named environments of one rc file into a flat map.
// Implementations wrap ErrNotFound, ErrProfileMissing or ErrParse.
type RCFileParser interface {
	ParseRCFile(ctx context.Context, path string, environments []string) (map[string]string, error)
}

// EnvFileParserFunc is a function adapter for EnvFileParser.
type EnvFileParserFunc func(ctx context.Context, path string) (map[string]string, error)

func (f EnvFileParserFunc) ParseEnvFile(ctx context.Context, path string) (map[string]string, error) {
	return f(ctx, path)
}

// RCFileParserFunc is a function adapter for RCFileParser.
type RCFileParserFunc func(ctx context.Context, path string, environments []string) (map[string]string, error)

func (f RCFileParserFunc) ParseRCFile(ctx context.Context, path string, environments []string) (map[string]string, error) {
	return f(ctx, path, environments)
}

// Reporter receives single-line progress and failure notices in verbose mode.
type Reporter interface {
	Info(msg string)
}

// ReporterFunc is a function adapter for Reporter.
type ReporterFunc func(msg string)

func (f ReporterFunc) Info(msg string) {
	f(msg)
}

// LogReporter writes notices to a structured logger at info level.
type LogReporter struct {
	Logger *slog.Logger
}

// Info logs msg. A nil Logger falls back to slog.Default.
func (r LogReporter) Info(msg string) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(msg)
}

type discardReporter struct{}

func (discardReporter) Info(string) {}
