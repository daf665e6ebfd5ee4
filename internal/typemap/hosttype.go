// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"go/ast"
	"sort"
)

// Direction distinguishes the two signature mapping flows: Outgoing maps a
// host type to the foreign value handed back to Java, Incoming maps a
// foreign argument to the host type a bound function expects.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func (d Direction) String() string {
	if d == Outgoing {
		return "outgoing"
	}
	return "incoming"
}

// HostType is one node of the conversion graph: a Go-side type as seen by
// the generated glue. Name is the normalized type expression, possibly made
// unique with a NUL-separated suffix for synthetic foreign views of the
// same Go type.
type HostType struct {
	Name string
	Expr ast.Expr

	implements map[string]struct{}
	idx        int
}

func newHostType(expr ast.Expr, name string) *HostType {
	return &HostType{Name: name, Expr: expr, idx: -1}
}

// String returns the display name with any uniqueness suffix stripped.
func (t *HostType) String() string {
	return UnpackUniqueTypename(t.Name)
}

// Implements reports whether the type carries the named capability.
func (t *HostType) Implements(capability string) bool {
	_, ok := t.implements[capability]
	return ok
}

// ImplementsAll reports whether every listed capability is present.
func (t *HostType) ImplementsAll(capabilities []string) bool {
	for _, c := range capabilities {
		if !t.Implements(c) {
			return false
		}
	}
	return true
}

func (t *HostType) addCapability(capability string) {
	if t.implements == nil {
		t.implements = make(map[string]struct{})
	}
	t.implements[capability] = struct{}{}
}

// Capabilities returns the capability names in sorted order.
func (t *HostType) Capabilities() []string {
	caps := make([]string, 0, len(t.implements))
	for c := range t.implements {
		caps = append(caps, c)
	}
	sort.Strings(caps)
	return caps
}

// mergeFrom unions the capability set of another node with the same name.
func (t *HostType) mergeFrom(other *HostType) {
	for c := range other.implements {
		t.addCapability(c)
	}
}

// clone returns a graph-detached copy used when a speculative path is
// recorded before its snapshot nodes are rolled back.
func (t *HostType) clone() *HostType {
	cp := &HostType{Name: t.Name, Expr: t.Expr, idx: -1}
	for c := range t.implements {
		cp.addCapability(c)
	}
	return cp
}

// ForeignTypeInfo pairs a foreign type name with the host type the glue
// trafficks it as.
type ForeignTypeInfo struct {
	Name     string
	HostType *HostType
}
