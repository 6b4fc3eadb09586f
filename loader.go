package envcmd

import (
	"context"
	"errors"
	"fmt"
)

// Loader resolves env file and rc file requests into one flat environment.
// Values from the rc file override values from the env file.
// A Loader holds no state between Load calls.
type Loader struct {
	envParser EnvFileParser
	rcParser  RCFileParser
	reporter  Reporter
	verbose   bool
	silent    bool
}

// NewLoader creates a Loader with no parsers, quiet and non-silent.
func NewLoader() *Loader {
	return &Loader{
		reporter: discardReporter{},
	}
}

// WithEnvFileParser sets the parser used for env file requests.
func (l *Loader) WithEnvFileParser(p EnvFileParser) *Loader {
	l.envParser = p
	return l
}

// WithRCFileParser sets the parser used for rc file requests.
func (l *Loader) WithRCFileParser(p RCFileParser) *Loader {
	l.rcParser = p
	return l
}

// WithReporter sets where verbose notices go.
func (l *Loader) WithReporter(r Reporter) *Loader {
	if r == nil {
		r = discardReporter{}
	}
	l.reporter = r
	return l
}

// Verbose controls whether notices are reported. Default: false.
func (l *Loader) Verbose(verbose bool) *Loader {
	l.verbose = verbose
	return l
}

// Silent controls whether a failed source yields an empty map instead of an error. Default: false.
func (l *Loader) Silent(silent bool) *Loader {
	l.silent = silent
	return l
}

// Result is the merged file environment and where each value came from.
type Result struct {
	Env        Environment
	Provenance Provenance
}

// Load resolves the requested sources and merges them.
// With no source requested it scans the default env file paths.
// Only file-sourced variables are returned; merging with the process
// environment is left to the caller.
func (l *Loader) Load(ctx context.Context, req Request) (*Result, error) {
	envReq := req.EnvFile
	if envReq == nil && req.RC == nil {
		envReq = &EnvFileRequest{}
	}

	if envReq != nil && l.envParser == nil {
		return nil, errors.New("env-cmd: no env file parser configured")
	}
	if req.RC != nil && l.rcParser == nil {
		return nil, errors.New("env-cmd: no rc file parser configured")
	}

	// Step 1: rc file
	var rcRes *Resolution
	if req.RC != nil {
		res, err := l.resolveRCFile(ctx, *req.RC)
		if err != nil {
			if !l.swallow(err) {
				return nil, err
			}
		} else {
			rcRes = &res
		}
	}

	// Step 2: env file
	var envRes *Resolution
	if envReq != nil {
		res, err := l.resolveEnvFile(ctx, *envReq)
		if err != nil {
			if !l.swallow(err) {
				return nil, err
			}
		} else {
			envRes = &res
		}
	}

	// Step 3: merge, later layers override earlier ones
	layers := []struct {
		kind SourceKind
		res  *Resolution
	}{
		{SourceEnvFile, envRes},
		{SourceRCFile, rcRes},
	}

	merged := make(Environment)
	owners := make(map[string]int)
	var sources []sourceRecord

	for _, layer := range layers {
		if layer.res == nil {
			continue
		}
		idx := len(sources)
		sources = append(sources, sourceRecord{kind: layer.kind, path: layer.res.Path})
		for key, value := range layer.res.Env {
			merged[key] = value
			owners[key] = idx
		}
	}

	return &Result{
		Env:        merged,
		Provenance: buildProvenance(merged, owners, sources),
	}, nil
}

// swallow reports whether err is a resolution failure hidden by silent mode.
func (l *Loader) swallow(err error) bool {
	var rerr *ResolveError
	return l.silent && errors.As(err, &rerr)
}

func (l *Loader) report(msg string) {
	if l.verbose {
		l.reporter.Info(msg)
	}
}

func (l *Loader) reportf(format string, args ...any) {
	if l.verbose {
		l.reporter.Info(fmt.Sprintf(format, args...))
	}
}
