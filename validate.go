package envcmd

import (
	"sort"
	"strings"
)

// validateEnvironment checks that every variable can be passed to a child
// process as a KEY=value entry. Returns *ValidationError listing every
// offending key in sorted order.
func validateEnvironment(path string, env map[string]string) error {
	var keyErrors []KeyError

	for key, value := range env {
		switch {
		case strings.TrimSpace(key) == "":
			keyErrors = append(keyErrors, KeyError{
				Key:     key,
				Code:    ErrCodeEmptyKey,
				Message: "variable name is empty",
			})
		case strings.ContainsAny(key, "=\x00"):
			keyErrors = append(keyErrors, KeyError{
				Key:     key,
				Code:    ErrCodeInvalidKey,
				Message: "variable name must not contain '=' or NUL",
			})
		case strings.ContainsRune(value, 0):
			keyErrors = append(keyErrors, KeyError{
				Key:     key,
				Code:    ErrCodeInvalidKey,
				Message: "value must not contain NUL",
			})
		}
	}

	if len(keyErrors) == 0 {
		return nil
	}

	sort.Slice(keyErrors, func(i, j int) bool {
		return keyErrors[i].Key < keyErrors[j].Key
	})
	return &ValidationError{Path: path, KeyErrors: keyErrors}
}
