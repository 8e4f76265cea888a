package config

import (
	"os"
	"path/filepath"
	"testing"

	"ubd/internal/rule"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.Policy() != rule.DefaultPolicy() {
		t.Error("default config should yield the default policy")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("missing config should yield defaults, got version %d", cfg.Version)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	f := false
	cfg.Rule.Functions = &f
	cfg.Logging.Level = "debug"

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", loaded.Logging.Level)
	}
	if loaded.Rule.Functions == nil || *loaded.Rule.Functions {
		t.Error("functions override should survive the roundtrip as false")
	}

	p := loaded.Policy()
	if p.Functions {
		t.Error("policy should exempt functions")
	}
	if !p.Classes || !p.Variables || !p.Typedefs {
		t.Error("unset categories should stay forbidden")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 99
	if err := cfg.Validate(); err == nil {
		t.Error("unknown version should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown logging format should fail validation")
	}
}

func TestLoadRC(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		want    rule.Policy
	}{
		{
			name:    "json object",
			file:    ".ubdrc.json",
			content: `{"rule": {"functions": false}}`,
			want:    rule.Policy{Functions: false, Classes: true, Variables: true, Typedefs: true},
		},
		{
			name:    "json nofunc literal",
			file:    ".ubdrc.json",
			content: `{"rule": "nofunc"}`,
			want:    rule.Policy{Functions: false, Classes: true, Variables: true, Typedefs: true},
		},
		{
			name:    "yaml object",
			file:    ".ubdrc.yaml",
			content: "rule:\n  variables: false\n  typedefs: false\n",
			want:    rule.Policy{Functions: true, Classes: true, Variables: false, Typedefs: false},
		},
		{
			name:    "yaml literal",
			file:    ".ubdrc.yml",
			content: "rule: nofunc\n",
			want:    rule.Policy{Functions: false, Classes: true, Variables: true, Typedefs: true},
		},
		{
			name:    "toml table",
			file:    ".ubdrc.toml",
			content: "[rule]\nclasses = false\n",
			want:    rule.Policy{Functions: true, Classes: false, Variables: true, Typedefs: true},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, c.file)
			if err := os.WriteFile(path, []byte(c.content), 0644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadRC(path)
			if err != nil {
				t.Fatalf("LoadRC failed: %v", err)
			}
			if got != c.want {
				t.Errorf("policy = %+v, want %+v", got, c.want)
			}
		})
	}

	t.Run("unknown top-level key is rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".ubdrc.json")
		if err := os.WriteFile(path, []byte(`{"rules": {}}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadRC(path); err == nil {
			t.Error("expected an error for an unknown key")
		}
	})

	t.Run("malformed file is rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".ubdrc.yaml")
		if err := os.WriteFile(path, []byte(":\n  - ["), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadRC(path); err == nil {
			t.Error("expected an error for malformed yaml")
		}
	})
}

func TestFindRC(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if got := FindRC(nested, root); got != "" {
		t.Errorf("expected no rc file, got %q", got)
	}

	rootRC := filepath.Join(root, ".ubdrc.yaml")
	if err := os.WriteFile(rootRC, []byte("rule: nofunc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindRC(nested, root); got != rootRC {
		t.Errorf("FindRC = %q, want root rc %q", got, rootRC)
	}

	// A nearer rc file wins over the root one.
	nearRC := filepath.Join(root, "src", ".ubdrc.json")
	if err := os.WriteFile(nearRC, []byte(`{"rule":"nofunc"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindRC(nested, root); got != nearRC {
		t.Errorf("FindRC = %q, want nearest rc %q", got, nearRC)
	}

	// The walk stops at the repo root.
	outside := filepath.Join(root, "src")
	if got := FindRC(outside, outside); got != nearRC {
		t.Errorf("FindRC within its own dir = %q, want %q", got, nearRC)
	}
}
