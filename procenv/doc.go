// Package procenv converts between process environment lists and
// envcmd.Environment maps and merges file variables with a process
// environment snapshot.
//
// Example:
//
//	processEnv := procenv.Parse(os.Environ())
//	merged := procenv.Merge(res.Env, processEnv, procenv.FileOverrides)
//	cmd.Env = procenv.Environ(merged)
package procenv
