// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	cfg "github.com/bridgen/bridgen/internal/config"
)

var testDefaults = map[string]any{
	"database.type": "sqlite",
	"database.dsn":  "./bridgen.db",
	"language":      "en",
}

// isolateConfigDirs points both the user config dir and the working
// directory at per-test temp dirs so no real config file leaks in.
func isolateConfigDirs(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	workDir := filepath.Join(tmp, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return tmp
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfigDirs(t)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, testDefaults, nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.Database.Type != "sqlite" {
		t.Fatalf("expected sqlite, got %q", got.Database.Type)
	}
	if got.Database.Dsn != "./bridgen.db" {
		t.Fatalf("expected ./bridgen.db, got %q", got.Database.Dsn)
	}
	if got.Language != "en" {
		t.Fatalf("expected en, got %q", got.Language)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmp := isolateConfigDirs(t)

	cfgDir := filepath.Join(tmp, "bridgen")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "database:\n  type: postgres\n  dsn: postgres://localhost/bridgen\nlanguage: de\njava:\n  package: com.example.bindings\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "bridgen.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, testDefaults, nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
	if got.Java.Package != "com.example.bindings" {
		t.Fatalf("expected com.example.bindings, got %q", got.Java.Package)
	}
}

func TestLoadConfigExplicitPathWins(t *testing.T) {
	tmp := isolateConfigDirs(t)

	explicit := filepath.Join(tmp, "custom.yaml")
	if err := os.WriteFile(explicit, []byte("database:\n  type: mysql\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, testDefaults, &explicit)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.Database.Type != "mysql" {
		t.Fatalf("expected mysql, got %q", got.Database.Type)
	}
	// Values not in the file fall back to defaults.
	if got.Language != "en" {
		t.Fatalf("expected en, got %q", got.Language)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	isolateConfigDirs(t)
	t.Setenv("BRIDGEN_DATABASE_TYPE", "postgres")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, testDefaults, nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected env override postgres, got %q", got.Database.Type)
	}
}

func TestWriteConfigFileCreatesFile(t *testing.T) {
	isolateConfigDirs(t)

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.Dsn = "./bridgen.db"
	c.Language = "en"

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("written config file is empty")
	}
}
