package envcmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

type dumpFormat int

const (
	formatText dumpFormat = iota
	formatJSON
	formatDotenv
)

// dumpConfig holds options for DumpEffective.
type dumpConfig struct {
	withSources bool   // Include source attribution for each variable
	format      dumpFormat
	indent      string // Indentation for JSON output (default: "  ")
	showSecrets bool
}

// WithSources includes source attribution for each variable in the output.
// Ignored by the dotenv format.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs the environment as a JSON object.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatJSON
	}
}

// AsDotenv outputs the environment as KEY="value" lines.
func AsDotenv() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatDotenv
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithSecrets disables redaction of secret-looking variables.
func WithSecrets() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.showSecrets = true
	}
}

// DumpEffective writes the resolved environment in sorted key order.
// Variables whose names look secret are written as "***redacted***".
func DumpEffective(w io.Writer, res *Result, opts ...DumpOption) error {
	if res == nil {
		return fmt.Errorf("result is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	switch config.format {
	case formatJSON:
		return dumpAsJSON(w, res, config)
	case formatDotenv:
		return dumpAsDotenv(w, res, config)
	default:
		return dumpAsText(w, res, config)
	}
}

// dumpAsText outputs one KEY: "value" line per variable.
func dumpAsText(w io.Writer, res *Result, config dumpConfig) error {
	for _, key := range res.Env.Keys() {
		prov, _ := res.Provenance.Lookup(key)
		line := fmt.Sprintf("%s: %q", key, displayValue(key, res.Env[key], config))
		if config.withSources && prov.SourceName != "" {
			line += fmt.Sprintf(" (source: %s)", prov.SourceName)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

type jsonVar struct {
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`
}

// dumpAsJSON outputs a flat object, or an object of {value, source} when
// sources are requested.
func dumpAsJSON(w io.Writer, res *Result, config dumpConfig) error {
	var payload any
	if config.withSources {
		out := make(map[string]jsonVar, len(res.Env))
		for key, value := range res.Env {
			prov, _ := res.Provenance.Lookup(key)
			out[key] = jsonVar{Value: displayValue(key, value, config), Source: prov.SourceName}
		}
		payload = out
	} else {
		out := make(map[string]string, len(res.Env))
		for key, value := range res.Env {
			out[key] = displayValue(key, value, config)
		}
		payload = out
	}

	data, err := json.MarshalIndent(payload, "", config.indent)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// dumpAsDotenv outputs sorted KEY="value" lines quoted the way godotenv writes them.
func dumpAsDotenv(w io.Writer, res *Result, config dumpConfig) error {
	out := make(map[string]string, len(res.Env))
	for key, value := range res.Env {
		out[key] = displayValue(key, value, config)
	}

	content, err := godotenv.Marshal(out)
	if err != nil {
		return fmt.Errorf("dotenv marshal error: %w", err)
	}
	if content == "" {
		return nil
	}

	if _, err := io.WriteString(w, content+"\n"); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func displayValue(key, value string, config dumpConfig) string {
	if !config.showSecrets && IsSecretKey(key) {
		return redacted
	}
	return value
}
