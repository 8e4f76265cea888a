//go:build cgo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command failed: %v\noutput:\n%s", err, buf.String())
	}
	return buf.String()
}

func TestCheckCommandExitCode(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.js")
	if err := os.WriteFile(file, []byte("alert(foo);\nvar foo = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("violations request exit code 1 without exiting inline", func(t *testing.T) {
		exitCode = 0
		out := runRoot(t, "check", "--no-cache", "--repo-root", dir, file)
		if exitCode != 1 {
			t.Errorf("exitCode = %d, want 1", exitCode)
		}
		if !strings.Contains(out, "'foo' was used before it was defined.") {
			t.Errorf("missing diagnostic in output:\n%s", out)
		}
	})

	t.Run("exit-zero suppresses the failure code", func(t *testing.T) {
		exitCode = 0
		runRoot(t, "check", "--no-cache", "--exit-zero", "--repo-root", dir, file)
		if exitCode != 0 {
			t.Errorf("exitCode = %d, want 0", exitCode)
		}
	})

	t.Run("clean files leave the exit code alone", func(t *testing.T) {
		clean := filepath.Join(dir, "b.js")
		if err := os.WriteFile(clean, []byte("var ok = 1;\nalert(ok);\n"), 0644); err != nil {
			t.Fatal(err)
		}
		exitCode = 0
		checkExitZeroFlag = false
		runRoot(t, "check", "--no-cache", "--repo-root", dir, clean)
		if exitCode != 0 {
			t.Errorf("exitCode = %d, want 0", exitCode)
		}
	})
}
