// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"runtime/debug"
	"testing"
)

func TestNewRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"generate", "check", "graph", "cache", "bundle", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestResolveBuildVersion(t *testing.T) {
	info := &debug.BuildInfo{}
	info.Main.Version = "v1.2.3"
	info.Settings = []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.time", Value: "2026-08-26T00:00:00Z"},
	}

	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Errorf("version = %q, want v1.2.3", v)
	}
	if c != "abc123" {
		t.Errorf("commit = %q, want abc123", c)
	}
	if d != "2026-08-26T00:00:00Z" {
		t.Errorf("date = %q", d)
	}
}

func TestResolveBuildVersionDevelFallsBack(t *testing.T) {
	info := &debug.BuildInfo{}
	info.Main.Version = "(devel)"

	v, c, _ := resolveBuildVersion(info)
	if v != "dev" {
		t.Errorf("version = %q, want dev", v)
	}
	if c != "dev" {
		t.Errorf("commit = %q, want dev", c)
	}
}

func TestGetConfigPathFromCliUnset(t *testing.T) {
	cmd := NewRootCmd()
	p, err := getConfigPathFromCli(cmd)
	if err != nil {
		t.Fatalf("getConfigPathFromCli error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil path when --config unset, got %q", *p)
	}
}
