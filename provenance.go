package envcmd

import (
	"sort"
	"strings"
)

// Provenance records which file supplied each resolved variable.
type Provenance struct {
	Vars []VarProvenance
}

// VarProvenance describes where a variable's value came from.
type VarProvenance struct {
	Key        string
	SourceName string // Source identifier (e.g., "rc:./.env-cmdrc")
	Path       string // Matched file path
	Secret     bool   // Whether the value is redacted in dumps
}

// Lookup returns provenance for key.
func (p *Provenance) Lookup(key string) (VarProvenance, bool) {
	if p == nil {
		return VarProvenance{}, false
	}
	i := sort.Search(len(p.Vars), func(i int) bool { return p.Vars[i].Key >= key })
	if i < len(p.Vars) && p.Vars[i].Key == key {
		return p.Vars[i], true
	}
	return VarProvenance{}, false
}

// secretMarkers are case-insensitive name fragments that mark a variable as secret.
var secretMarkers = []string{"SECRET", "PASSWORD", "PASSWD", "TOKEN", "API_KEY", "APIKEY", "PRIVATE_KEY", "CREDENTIAL"}

// IsSecretKey reports whether a variable name looks like it holds a secret.
func IsSecretKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// buildProvenance attributes every key of env to the source that won it.
// owners maps key to the index into sources.
func buildProvenance(env Environment, owners map[string]int, sources []sourceRecord) Provenance {
	vars := make([]VarProvenance, 0, len(env))
	for _, key := range env.Keys() {
		src := sources[owners[key]]
		vars = append(vars, VarProvenance{
			Key:        key,
			SourceName: string(src.kind) + ":" + src.path,
			Path:       src.path,
			Secret:     IsSecretKey(key),
		})
	}
	return Provenance{Vars: vars}
}

type sourceRecord struct {
	kind SourceKind
	path string
}
