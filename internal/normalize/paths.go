package normalize

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the user's home directory.
// Examples:
//   - "~/.env" → "/home/me/.env"
//   - "~" → "/home/me"
//   - "./.env" → "./.env"
//
// "~user" forms are left unchanged, as is the path when the home directory
// cannot be determined.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Path expands "~" and makes path absolute against dir.
// An empty dir means the current working directory.
func Path(path, dir string) (string, error) {
	path = ExpandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Join(dir, path), nil
}
