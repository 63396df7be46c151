package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured file path the way a shell would: a
// leading "~" becomes the user's home directory and $VAR references are
// substituted from the environment. When the home directory cannot be
// determined the tilde is left in place rather than failing the lookup.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
