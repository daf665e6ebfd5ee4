// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// package diag carries positioned diagnostics through the binding pipeline.
// A diagnostic names the source it came from (a rule module id, a binding
// definition file, or a scanned Go file) and can accumulate secondary notes
// pointing at related locations.
package diag

import (
	"fmt"
	"strings"
)

// Pos identifies a location inside a named source. Line and Entry are
// alternatives: YAML-backed sources index by entry, scanned Go sources by
// line. Zero values mean "unknown".
type Pos struct {
	Source string
	Line   int
	Entry  int
}

func (p Pos) String() string {
	switch {
	case p.Source == "":
		return "<unknown>"
	case p.Line > 0:
		return fmt.Sprintf("%s:%d", p.Source, p.Line)
	case p.Entry > 0:
		return fmt.Sprintf("%s#%d", p.Source, p.Entry)
	default:
		return p.Source
	}
}

// Error is a diagnostic with optional follow-up notes.
type Error struct {
	Pos   Pos
	Msg   string
	notes []note
}

type note struct {
	pos Pos
	msg string
}

// New creates a diagnostic at the given position.
func New(pos Pos, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Note appends a secondary location to the diagnostic and returns it for
// chaining.
func (e *Error) Note(pos Pos, format string, args ...interface{}) *Error {
	e.notes = append(e.notes, note{pos: pos, msg: fmt.Sprintf(format, args...)})
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Pos, e.Msg)
	for _, n := range e.notes {
		fmt.Fprintf(&b, "\n  %s: %s", n.pos, n.msg)
	}
	return b.String()
}
