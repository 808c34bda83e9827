// Package config reads and validates the advisor's settings.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvKeyReplacer maps nested viper keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
