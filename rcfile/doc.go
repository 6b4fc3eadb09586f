// Package rcfile parses multi-environment rc files.
//
// An rc file is an object of named environments, each a flat object of
// variables. The optional "base" environment is merged under every
// requested environment:
//
//	{
//	  "base":       {"LOG_LEVEL": "info"},
//	  "production": {"LOG_LEVEL": "warn", "API_URL": "https://api.example.com"}
//	}
//
// Extensionless, .json and .jsonc files are JSON with comments allowed;
// .yaml/.yml and .toml are also accepted.
package rcfile
