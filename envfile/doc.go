// Package envfile parses env files into flat variable maps.
//
// Format is auto-detected from extension:
//   - .json, .jsonc: a JSON object (comments and trailing commas allowed)
//   - .yaml, .yml: a YAML mapping
//   - .toml: a TOML table
//   - anything else: KEY=value lines (comments, quotes and "export" allowed)
//
// Values are kept as written: "$NAME" references are not expanded.
//
// Example:
//
//	parser := envfile.New(envfile.Options{})
//	loader := envcmd.NewLoader().WithEnvFileParser(parser)
package envfile
