// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"bytes"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// TestHelpersWriteToBuffer swaps L with a buffer-backed logger and verifies
// the formatted helpers emit through it.
func TestHelpersWriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	L.SetLevel(clog.DebugLevel)
	defer func() { L = prev }()

	Debugf("resolved %s", "jint")
	Infof("emitted %d classes", 3)
	Warnf("duplicate edge")
	Errorf("no path %v", "jlong")

	out := buf.String()
	for _, want := range []string{"resolved jint", "emitted 3 classes", "duplicate edge", "no path jlong"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %s", want, out)
		}
	}
}

func TestDefaultLoggerUsable(t *testing.T) {
	if L == nil {
		t.Fatal("package logger not initialized")
	}
}

func TestSetDebugTogglesLevel(t *testing.T) {
	prev := L
	L = clog.New(&bytes.Buffer{})
	defer func() { L = prev }()

	SetDebug(true)
	if L.GetLevel() != clog.DebugLevel {
		t.Fatalf("expected debug level, got %v", L.GetLevel())
	}
	SetDebug(false)
	if L.GetLevel() != clog.InfoLevel {
		t.Fatalf("expected info level, got %v", L.GetLevel())
	}
}
