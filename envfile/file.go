package envfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-envparse"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	envcmd "github.com/KilianKilmister/env-cmd"
	"github.com/KilianKilmister/env-cmd/internal/normalize"
)

// Options configures env file parsing.
type Options struct {
	// Format: "dotenv", "json", "yaml" or "toml". Auto-detected from extension if empty.
	Format string

	// Dir resolves relative paths. Empty means the working directory.
	Dir string
}

// Parser reads env files. It implements envcmd.EnvFileParser.
type Parser struct {
	opts Options
}

// New creates an env file parser.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// ParseEnvFile reads the file at path and returns its variables.
// A file that cannot be read is reported as envcmd.ErrNotFound. Malformed
// content is reported as envcmd.ErrParse.
func (p *Parser) ParseEnvFile(ctx context.Context, path string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := normalize.Path(path, p.opts.Dir)
	if err != nil {
		return nil, envcmd.MarkNotFound(fmt.Errorf("resolve env file path %s: %w", path, err))
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, envcmd.MarkNotFound(fmt.Errorf("read env file %s: %w", path, err))
	}

	format := p.opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	switch format {
	case "dotenv":
		env, err := envparse.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, envcmd.MarkParse(fmt.Errorf("parse env file %s: %w", path, err))
		}
		return env, nil
	case "json":
		return decodeStructured(path, "JSON", data, func(data []byte, raw *map[string]any) error {
			data = jsonc.ToJSON(data)
			if len(bytes.TrimSpace(data)) == 0 {
				return nil
			}
			return json.Unmarshal(data, raw)
		})
	case "yaml", "yml":
		return decodeStructured(path, "YAML", data, func(data []byte, raw *map[string]any) error {
			return yaml.Unmarshal(data, raw)
		})
	case "toml":
		return decodeStructured(path, "TOML", data, func(data []byte, raw *map[string]any) error {
			return toml.Unmarshal(data, raw)
		})
	default:
		return nil, envcmd.MarkParse(fmt.Errorf("unsupported env file format: %s (supported: dotenv, json, yaml, toml)", format))
	}
}

// decodeStructured decodes a top-level object and stringifies its values.
func decodeStructured(path, formatName string, data []byte, decode func([]byte, *map[string]any) error) (map[string]string, error) {
	var raw map[string]any
	if err := decode(data, &raw); err != nil {
		return nil, envcmd.MarkParse(fmt.Errorf("parse %s env file %s: %w", formatName, path, err))
	}

	env := make(map[string]string, len(raw))
	for key, value := range raw {
		env[key] = normalize.Value(value)
	}
	return env, nil
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".jsonc":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "dotenv"
	}
}
