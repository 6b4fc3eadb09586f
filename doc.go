// Package envcmd resolves environment variables from env files and
// multi-environment rc files for a child process.
//
// Quick Start:
//
//	loader := envcmd.NewLoader().
//	    WithEnvFileParser(envfile.New(envfile.Options{})).
//	    WithRCFileParser(rcfile.New(rcfile.Options{}))
//
//	res, err := loader.Load(ctx, envcmd.Request{
//	    RC: &envcmd.RCFileRequest{Environments: []string{"production"}},
//	})
//
// Default env file paths: ./.env, ./.env.json, ./.env.yaml, ./.env.yml, ./.env.toml
// Default rc file paths: ./.env-cmdrc, ./.env-cmdrc.json, ./.env-cmdrc.yaml, ./.env-cmdrc.yml, ./.env-cmdrc.toml
//
// rc file values override env file values. See example_test.go for usage.
package envcmd
