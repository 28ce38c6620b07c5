package tools

import (
	"os"
	"path/filepath"
	"strings"
)

// stringParam extracts a string argument; missing or mistyped values yield "".
func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// intParam extracts an integer argument. JSON numbers arrive as float64, so
// both forms are accepted; def is returned when the key is absent or invalid.
func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// boolParam extracts a boolean argument with a default.
func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// expandPath expands a leading ~ to the user's home directory and cleans the
// result. Tool paths are otherwise taken as given, relative to the process
// working directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return filepath.Clean(path)
}
