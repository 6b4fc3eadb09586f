package envcmd

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the resolver and the file parsers.
var (
	// ErrNotFound means the file at a candidate path does not exist or cannot be read.
	// The resolver moves on to the next candidate.
	ErrNotFound = errors.New("env-cmd: file not found")

	// ErrProfileMissing means an rc file was read but none of the requested
	// environments exist in it. The resolver stops scanning.
	ErrProfileMissing = errors.New("env-cmd: environments not found")

	// ErrParse means a file was read but its content is malformed.
	ErrParse = errors.New("env-cmd: malformed file")
)

// MarkNotFound wraps err so that errors.Is(err, ErrNotFound) holds.
// The message of err is kept unchanged.
func MarkNotFound(err error) error {
	return &markedError{err: err, kind: ErrNotFound}
}

// MarkProfileMissing wraps err so that errors.Is(err, ErrProfileMissing) holds.
func MarkProfileMissing(err error) error {
	return &markedError{err: err, kind: ErrProfileMissing}
}

// MarkParse wraps err so that errors.Is(err, ErrParse) holds.
func MarkParse(err error) error {
	return &markedError{err: err, kind: ErrParse}
}

type markedError struct {
	err  error
	kind error
}

func (e *markedError) Error() string {
	return e.err.Error()
}

func (e *markedError) Unwrap() []error {
	return []error{e.err, e.kind}
}

// FailureKind classifies why a source could not be resolved.
type FailureKind int

const (
	NotFound FailureKind = iota
	ProfileMissing
	ParseError
)

func (k FailureKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case ProfileMissing:
		return "profile_missing"
	case ParseError:
		return "parse_error"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case ProfileMissing:
		return ErrProfileMissing
	case ParseError:
		return ErrParse
	default:
		return ErrNotFound
	}
}

// SourceKind names the kind of file a request reads.
type SourceKind string

const (
	SourceEnvFile SourceKind = "env"
	SourceRCFile  SourceKind = "rc"
)

// label is the user-facing file kind used in messages.
func (s SourceKind) label() string {
	if s == SourceRCFile {
		return ".rc file"
	}
	return ".env file"
}

// ResolveError is the terminal failure of one source resolution.
type ResolveError struct {
	Kind   FailureKind
	Source SourceKind

	// Paths lists every candidate that was attempted, in order.
	Paths []string

	// Default is true when the candidates came from the default path scan.
	Default bool

	// Fallback is true when an explicit env file path was followed by the fallback path.
	Fallback bool

	// Environments are the requested rc environments (rc sources only).
	Environments []string

	// Err is the parser error for the last attempted path, if any.
	Err error
}

// Error formats the failure. Parse errors carry the parser message unchanged.
func (e *ResolveError) Error() string {
	switch e.Kind {
	case ProfileMissing:
		return fmt.Sprintf("failed to find environments: [%s] for %s at path: %s",
			strings.Join(e.Environments, ","), e.Source.label(), e.lastPath())
	case ParseError:
		if e.Err != nil {
			return e.Err.Error()
		}
		return fmt.Sprintf("failed to parse %s at path: %s", e.Source.label(), e.lastPath())
	}

	switch {
	case e.Fallback && len(e.Paths) > 1:
		return fmt.Sprintf("failed to find %s at path: %s or fallback path: %s",
			e.Source.label(), e.Paths[0], strings.Join(e.Paths[1:], ","))
	case e.Default:
		return fmt.Sprintf("failed to find %s at default paths: [%s]",
			e.Source.label(), strings.Join(e.Paths, ","))
	default:
		return fmt.Sprintf("failed to find %s at path: %s", e.Source.label(), e.lastPath())
	}
}

// Unwrap returns the parser error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *ResolveError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *ResolveError) lastPath() string {
	if len(e.Paths) == 0 {
		return ""
	}
	return e.Paths[len(e.Paths)-1]
}

// Error codes for key validation failures.
const (
	ErrCodeEmptyKey   = "empty_key"
	ErrCodeInvalidKey = "invalid_key"
)

// ValidationError aggregates invalid variable names found in one source.
type ValidationError struct {
	Path      string
	KeyErrors []KeyError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.KeyErrors) == 0 {
		return "environment validation failed: no errors"
	}

	var b strings.Builder
	if len(e.KeyErrors) == 1 {
		fmt.Fprintf(&b, "environment validation failed for %s: 1 error\n", e.Path)
	} else {
		fmt.Fprintf(&b, "environment validation failed for %s: %d errors\n", e.Path, len(e.KeyErrors))
	}

	for _, ke := range e.KeyErrors {
		fmt.Fprintf(&b, "  - %q: %s (%s)\n", ke.Key, ke.Code, ke.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Is lets a ValidationError match ErrParse.
func (e *ValidationError) Is(target error) bool {
	return target == ErrParse
}

// KeyError represents a single invalid variable name.
type KeyError struct {
	Key     string
	Code    string
	Message string
}
