package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	uerr "ubd/internal/errors"
	"ubd/internal/rule"
)

// rcNames lists recognized rc-file names in priority order within one
// directory.
var rcNames = []string{".ubdrc.json", ".ubdrc.yaml", ".ubdrc.yml", ".ubdrc.toml"}

// FindRC walks from dir up to repoRoot (inclusive) and returns the path
// of the nearest rc file, or "" when none exists. Both paths must be
// absolute.
func FindRC(dir, repoRoot string) string {
	for {
		for _, name := range rcNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		if dir == repoRoot {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadRC parses an rc file and resolves the policy it describes. The
// file holds a single "rule" key whose value is either the "nofunc"
// literal or an object overriding any subset of the category booleans.
func LoadRC(path string) (rule.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rule.Policy{}, uerr.New(uerr.FileUnreadable, "failed to read rc file", err)
	}

	var doc map[string]interface{}
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return rule.Policy{}, uerr.New(uerr.ConfigInvalid, "unrecognized rc file extension", nil)
	}
	if err != nil {
		return rule.Policy{}, uerr.New(uerr.ConfigInvalid, "failed to parse rc file", err)
	}

	for key := range doc {
		if key != "rule" {
			return rule.Policy{}, uerr.New(uerr.ConfigInvalid, "rc file may only set the rule key", nil)
		}
	}

	return rule.ParsePolicy(normalize(doc["rule"]))
}

// normalize maps decoder-specific container types onto the shapes
// ParsePolicy accepts. yaml.v3 and toml already produce
// map[string]interface{} for tables, but nested values may need the
// same treatment if the shape grows, so the conversion lives here.
func normalize(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	}
	return v
}
