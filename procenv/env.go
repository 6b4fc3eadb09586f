package procenv

import (
	"maps"
	"strings"

	envcmd "github.com/KilianKilmister/env-cmd"
)

// Precedence chooses which side wins when a variable is set in both the
// file environment and the process environment.
type Precedence int

const (
	// FileOverrides lets file values replace process values (the default).
	FileOverrides Precedence = iota

	// ProcessOverrides keeps process values, as with --no-override.
	ProcessOverrides
)

// Parse converts KEY=value entries, as returned by os.Environ, into a map.
// Entries without "=" are skipped. A leading "=" belongs to the name, which
// keeps Windows drive entries such as "=C:=C:\\" intact. Later duplicates win.
func Parse(environ []string) envcmd.Environment {
	result := make(envcmd.Environment, len(environ))

	for _, entry := range environ {
		if entry == "" {
			continue
		}

		sep := strings.IndexByte(entry[1:], '=')
		if sep < 0 {
			continue
		}
		sep++

		result[entry[:sep]] = entry[sep+1:]
	}

	return result
}

// Merge combines file variables with a process environment snapshot.
// Neither input is modified.
func Merge(fileEnv, processEnv envcmd.Environment, precedence Precedence) envcmd.Environment {
	result := make(envcmd.Environment, len(fileEnv)+len(processEnv))

	if precedence == ProcessOverrides {
		maps.Copy(result, fileEnv)
		maps.Copy(result, processEnv)
		return result
	}

	maps.Copy(result, processEnv)
	maps.Copy(result, fileEnv)
	return result
}

// Environ converts env into KEY=value entries sorted by name.
func Environ(env envcmd.Environment) []string {
	keys := env.Keys()
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, key+"="+env[key])
	}
	return result
}
