package envcmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FallbackEnvFilePath is the single path tried after an explicit env file
// path fails when EnvFileRequest.Fallback is set.
const FallbackEnvFilePath = "./.env"

var (
	defaultEnvFilePaths = []string{"./.env", "./.env.json", "./.env.yaml", "./.env.yml", "./.env.toml"}
	defaultRCFilePaths  = []string{"./.env-cmdrc", "./.env-cmdrc.json", "./.env-cmdrc.yaml", "./.env-cmdrc.yml", "./.env-cmdrc.toml"}
)

// DefaultEnvFilePaths returns the env file paths scanned, in priority order,
// when no explicit path is given.
func DefaultEnvFilePaths() []string {
	return append([]string(nil), defaultEnvFilePaths...)
}

// DefaultRCFilePaths returns the rc file paths scanned, in priority order,
// when no explicit path is given.
func DefaultRCFilePaths() []string {
	return append([]string(nil), defaultRCFilePaths...)
}

// Candidates returns the ordered paths probed for r.
func (r EnvFileRequest) Candidates() []string {
	switch {
	case r.Path == "":
		return DefaultEnvFilePaths()
	case r.Fallback && filepath.Clean(r.Path) != filepath.Clean(FallbackEnvFilePath):
		return []string{r.Path, FallbackEnvFilePath}
	default:
		return []string{r.Path}
	}
}

// Candidates returns the ordered paths probed for r.
func (r RCFileRequest) Candidates() []string {
	if r.Path == "" {
		return DefaultRCFilePaths()
	}
	return []string{r.Path}
}

// Resolution is a successfully resolved source.
type Resolution struct {
	Env  Environment
	Path string
}

type probeFunc func(ctx context.Context, path string) (map[string]string, error)

// scan probes candidates in order and stops at the first success.
// Only ErrNotFound advances to the next candidate; any other error ends the
// scan. It returns the index of the matched candidate, the paths attempted
// and the last parser error.
func scan(ctx context.Context, candidates []string, probe probeFunc, onMiss func(i int, path string)) (Resolution, int, []string, error) {
	attempted := make([]string, 0, len(candidates))
	var lastErr error

	for i, path := range candidates {
		if err := ctx.Err(); err != nil {
			return Resolution{}, -1, attempted, err
		}

		attempted = append(attempted, path)
		env, err := probe(ctx, path)
		if err == nil {
			if verr := validateEnvironment(path, env); verr != nil {
				return Resolution{}, i, attempted, verr
			}
			return Resolution{Env: Environment(env).Clone(), Path: path}, i, attempted, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return Resolution{}, i, attempted, err
		}

		lastErr = err
		if onMiss != nil {
			onMiss(i, path)
		}
	}

	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return Resolution{}, -1, attempted, lastErr
}

// classify maps a parser error to a failure kind.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case errors.Is(err, ErrProfileMissing):
		return ProfileMissing
	default:
		return ParseError
	}
}

// resolveEnvFile resolves one env file request.
func (l *Loader) resolveEnvFile(ctx context.Context, req EnvFileRequest) (Resolution, error) {
	explicit := req.Path != ""
	candidates := req.Candidates()
	fallback := explicit && len(candidates) > 1

	res, matched, attempted, err := scan(ctx, candidates, l.envParser.ParseEnvFile, func(i int, path string) {
		if fallback && i == 0 {
			l.reportf("Failed to find .env file at path: %s", path)
		}
	})
	if err == nil {
		if explicit && matched == 0 {
			l.reportf("Found .env file at path: %s", res.Path)
		} else {
			l.reportf("Found .env file at default path: %s", res.Path)
		}
		return res, nil
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return Resolution{}, err
	}

	rerr := &ResolveError{
		Kind:     classify(err),
		Source:   SourceEnvFile,
		Paths:    attempted,
		Default:  !explicit,
		Fallback: fallback,
		Err:      err,
	}
	l.report(failureNotice(rerr))
	return Resolution{}, rerr
}

// resolveRCFile resolves one rc file request. A missing environment ends the
// scan at the file where it was detected.
func (l *Loader) resolveRCFile(ctx context.Context, req RCFileRequest) (Resolution, error) {
	explicit := req.Path != ""
	environments := append([]string(nil), req.Environments...)

	probe := func(ctx context.Context, path string) (map[string]string, error) {
		return l.rcParser.ParseRCFile(ctx, path, environments)
	}

	res, _, attempted, err := scan(ctx, req.Candidates(), probe, nil)
	if err == nil {
		if explicit {
			l.reportf("Found environments: [%s] for .rc file at path: %s", strings.Join(environments, ","), res.Path)
		} else {
			l.reportf("Found environments: [%s] for default .rc file at path: %s", strings.Join(environments, ","), res.Path)
		}
		return res, nil
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return Resolution{}, err
	}

	rerr := &ResolveError{
		Kind:         classify(err),
		Source:       SourceRCFile,
		Paths:        attempted,
		Default:      !explicit,
		Environments: environments,
		Err:          err,
	}
	l.report(failureNotice(rerr))
	return Resolution{}, rerr
}

// failureNotice is the verbose line for a terminal failure.
func failureNotice(e *ResolveError) string {
	switch {
	case e.Kind == ParseError:
		return fmt.Sprintf("Failed to parse %s at path: %s", e.Source.label(), e.lastPath())
	case e.Kind == NotFound && e.Fallback:
		return fmt.Sprintf("Failed to find %s at fallback path: %s", e.Source.label(), e.lastPath())
	default:
		msg := e.Error()
		return strings.ToUpper(msg[:1]) + msg[1:]
	}
}
