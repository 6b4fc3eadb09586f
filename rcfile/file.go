package rcfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	envcmd "github.com/KilianKilmister/env-cmd"
	"github.com/KilianKilmister/env-cmd/internal/normalize"
)

// BaseEnvironment is merged under the requested environments when present.
const BaseEnvironment = "base"

// Options configures rc file parsing.
type Options struct {
	// Format: "json", "yaml" or "toml". Auto-detected from extension if empty.
	Format string

	// Dir resolves relative paths. Empty means the working directory.
	Dir string
}

// Parser reads rc files. It implements envcmd.RCFileParser.
type Parser struct {
	opts Options
}

// New creates an rc file parser.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// ParseRCFile reads the file at path and merges the "base" environment and
// then each named environment in order. Later environments override earlier
// ones. A null environment counts as absent. When none of the named
// environments exist the error wraps envcmd.ErrProfileMissing.
func (p *Parser) ParseRCFile(ctx context.Context, path string, environments []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.load(path)
	if err != nil {
		return nil, err
	}

	env := make(map[string]string)
	if section, ok := raw[BaseEnvironment]; ok {
		if err := mergeSection(env, BaseEnvironment, section); err != nil {
			return nil, envcmd.MarkParse(fmt.Errorf("parse rc file %s: %w", path, err))
		}
	}

	found := false
	for _, name := range environments {
		section, ok := raw[name]
		if !ok || section == nil {
			continue
		}
		found = true
		if err := mergeSection(env, name, section); err != nil {
			return nil, envcmd.MarkParse(fmt.Errorf("parse rc file %s: %w", path, err))
		}
	}

	if !found {
		return nil, envcmd.MarkProfileMissing(fmt.Errorf("failed to find environments: [%s] for .rc file at path: %s",
			strings.Join(environments, ","), path))
	}

	return env, nil
}

// load reads and decodes the rc file at path.
func (p *Parser) load(path string) (map[string]any, error) {
	absPath, err := normalize.Path(path, p.opts.Dir)
	if err != nil {
		return nil, envcmd.MarkNotFound(fmt.Errorf("resolve rc file path %s: %w", path, err))
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, envcmd.MarkNotFound(fmt.Errorf("read rc file %s: %w", path, err))
	}

	format := p.opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	raw, err := decode(format, data)
	if err != nil {
		return nil, envcmd.MarkParse(fmt.Errorf("parse rc file %s: %w", path, err))
	}
	return raw, nil
}

func decode(format string, data []byte) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case "json":
		data = jsonc.ToJSON(data)
		if len(bytes.TrimSpace(data)) == 0 {
			return map[string]any{}, nil
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported rc file format: %s (supported: json, yaml, toml)", format)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// mergeSection copies the variables of one environment into env.
func mergeSection(env map[string]string, name string, section any) error {
	switch vars := section.(type) {
	case map[string]any:
		for key, value := range vars {
			env[key] = normalize.Value(value)
		}
	case map[any]any:
		for key, value := range vars {
			env[fmt.Sprint(key)] = normalize.Value(value)
		}
	case nil:
	default:
		return fmt.Errorf("environment %q must be an object, got %T", name, section)
	}
	return nil
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
