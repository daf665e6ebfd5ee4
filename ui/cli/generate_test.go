// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/bridgen/bridgen/internal/registry"
)

const counterSrc = `package counter

import "errors"

type Counter struct {
	n int64
}

func NewCounter(start int64) (*Counter, error) {
	if start < 0 {
		return nil, errors.New("negative start")
	}
	return &Counter{n: start}, nil
}

func (c *Counter) Add(delta int64) int64 {
	c.n += delta
	return c.n
}

func Version() string { return "1.0" }
`

const counterDef = `package: counter
classes:
  - name: Counter
    self_type: Counter
    methods:
      - func: NewCounter
        kind: constructor
        args:
          - name: start
            type: int64
      - func: Counter.Add
        kind: method
        self: pointer
        args:
          - name: delta
            type: int64
        return: int64
      - func: Version
        kind: static
        return: string
`

// setupWorkspace creates an isolated working directory holding a small Go
// package plus a binding definition, and points the config discovery away
// from the real user environment.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	t.Setenv("HOME", tmp)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := os.MkdirAll(filepath.Join(tmp, "counter"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "counter", "counter.go"), []byte(counterSrc), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "counter.bridgen.yaml"), []byte(counterDef), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	if !registry.IsInitialized() {
		if err := registry.InitDB("sqlite", ":memory:"); err != nil {
			t.Fatalf("registry init: %v", err)
		}
	}
	return tmp
}

func TestGenerateEndToEnd(t *testing.T) {
	tmp := setupWorkspace(t)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{
		"generate", "counter.bridgen.yaml",
		"--out", "java",
		"--java-package", "com.example.counter",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	javaFile := filepath.Join(tmp, "java", "Counter.java")
	data, err := os.ReadFile(javaFile)
	if err != nil {
		t.Fatalf("expected Counter.java: %v", err)
	}
	if !strings.Contains(string(data), "package com.example.counter;") {
		t.Errorf("Counter.java missing package declaration")
	}
	if !strings.Contains(string(data), "public final class Counter") {
		t.Errorf("Counter.java missing class declaration")
	}

	glueFile := filepath.Join(tmp, "counter", "bridgen_jni.go")
	glue, err := os.ReadFile(glueFile)
	if err != nil {
		t.Fatalf("expected glue file: %v", err)
	}
	if !strings.Contains(string(glue), "package counter") {
		t.Errorf("glue file should live in the bound package")
	}

	runs, err := registry.Get().GetAllRuns()
	if err != nil {
		t.Fatalf("GetAllRuns: %v", err)
	}
	if len(runs) == 0 {
		t.Fatal("expected at least one recorded run")
	}
	if runs[0].Status != "ok" {
		t.Errorf("run status = %q, want ok", runs[0].Status)
	}
	artifacts, err := registry.Get().GetArtifactsForRun(runs[0].ID)
	if err != nil {
		t.Fatalf("GetArtifactsForRun: %v", err)
	}
	if len(artifacts) == 0 {
		t.Error("expected recorded artifacts for the run")
	}
}

func TestCheckCommand(t *testing.T) {
	setupWorkspace(t)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"check", "counter.bridgen.yaml"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("check failed: %v", err)
	}
}

func TestCheckCommandRejectsBrokenDefinition(t *testing.T) {
	tmp := setupWorkspace(t)

	broken := strings.Replace(counterDef, "kind: constructor", "kind: destructor", 1)
	if err := os.WriteFile(filepath.Join(tmp, "broken.yaml"), []byte(broken), 0o644); err != nil {
		t.Fatalf("write broken definition: %v", err)
	}

	cmd := NewRootCmd()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"check", "broken.yaml"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected check to fail for invalid method kind")
	}
}

func TestWriteBundle(t *testing.T) {
	tmp := t.TempDir()
	srcDir := filepath.Join(tmp, "java")
	if err := os.MkdirAll(filepath.Join(srcDir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"Counter.java":                   "public final class Counter {}",
		filepath.Join("sub", "Aux.java"): "public final class Aux {}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	out := filepath.Join(tmp, "bundle.tar.zst")
	n, err := writeBundle(srcDir, out)
	if err != nil {
		t.Fatalf("writeBundle: %v", err)
	}
	if n != 2 {
		t.Fatalf("packed %d files, want 2", n)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	defer func() { _ = f.Close() }()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd.NewReader: %v", err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	seen := map[string]bool{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar.Next: %v", err)
		}
		seen[hdr.Name] = true
	}
	if !seen["Counter.java"] || !seen["sub/Aux.java"] {
		t.Fatalf("bundle missing entries, got %v", seen)
	}
}
