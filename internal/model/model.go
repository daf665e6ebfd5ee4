// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures describing what gets
// exported to the foreign language: classes backed by Go types, enums
// backed by Go constants, and callback interfaces.
package model // import "github.com/bridgen/bridgen/internal/model"

import (
	"strings"
	"time"

	"github.com/bridgen/bridgen/internal/diag"
)

// MethodAccess is the visibility of a generated foreign method.
type MethodAccess string

const (
	AccessPublic    MethodAccess = "public"
	AccessPrivate   MethodAccess = "private"
	AccessProtected MethodAccess = "protected"
)

// MethodVariant distinguishes constructors, instance methods and statics.
type MethodVariant int

const (
	// VariantConstructor creates the backing Go value and returns a handle.
	VariantConstructor MethodVariant = iota
	// VariantMethod dispatches on a live handle.
	VariantMethod
	// VariantStatic dispatches with no receiver.
	VariantStatic
)

func (v MethodVariant) String() string {
	switch v {
	case VariantConstructor:
		return "constructor"
	case VariantMethod:
		return "method"
	default:
		return "static"
	}
}

// SelfVariant is the receiver shape of a Go method bound as an instance
// method. Value receivers are read-only from the foreign side; pointer
// receivers may mutate the backing object.
type SelfVariant int

const (
	SelfValue SelfVariant = iota
	SelfPtr
)

// IsReadOnly reports whether the receiver cannot mutate the object.
func (v SelfVariant) IsReadOnly() bool {
	return v == SelfValue
}

// Param is a named function input with its host (Go) type expression.
type Param struct {
	Name string
	Type string
}

// FnDecl is the declaration of a bound function: inputs, optional output
// type expression and the position it was declared at. MayFail marks the
// Go-side (T, error) shape; the foreign side surfaces it as an exception.
type FnDecl struct {
	Pos     diag.Pos
	Inputs  []Param
	Output  string // empty means no return value
	MayFail bool
}

// MethodInfo describes one exported method of a class.
type MethodInfo struct {
	Variant     MethodVariant
	Self        SelfVariant // meaningful only for VariantMethod
	HostFunc    string      // Go function or method path, e.g. "NewCounter" or "Counter.Add"
	Decl        FnDecl
	Alias       string // foreign-side name override
	Access      MethodAccess
	DocComments []string
}

// ShortName returns the foreign-side method name: the alias if set, else
// the last segment of the host path.
func (m *MethodInfo) ShortName() string {
	if m.Alias != "" {
		return m.Alias
	}
	if i := strings.LastIndex(m.HostFunc, "."); i >= 0 {
		return m.HostFunc[i+1:]
	}
	return m.HostFunc
}

// ClassInfo describes one exported class.
type ClassInfo struct {
	Pos            diag.Pos
	Name           string
	SelfType       string // host type expression the class wraps; empty for namespaces of statics
	ConstructorRet string // host type the constructor returns; may be wrapped in (T, error)
	Methods        []MethodInfo
	ForeignCode    string // verbatim code inserted into the generated foreign class
	DocComments    []string
	CopyDerived    bool
}

// SelfTypeOrUnit returns the class self type, or the unit type when the
// class only groups static methods.
func (c *ClassInfo) SelfTypeOrUnit() string {
	if c.SelfType == "" {
		return "struct{}"
	}
	return c.SelfType
}

// Validate enforces the structural rules shared by all language backends:
// constructors and instance methods need a self type, and a self type
// without any methods is pointless.
func (c *ClassInfo) Validate() error {
	var hasConstructor, hasMethods, hasStatics bool
	for i := range c.Methods {
		switch c.Methods[i].Variant {
		case VariantConstructor:
			hasConstructor = true
		case VariantMethod:
			hasMethods = true
		case VariantStatic:
			hasStatics = true
		}
	}
	switch {
	case c.SelfType == "" && hasConstructor:
		return diag.New(c.Pos, "class %s has a constructor, but no self type defined", c.Name)
	case c.SelfType == "" && hasMethods:
		return diag.New(c.Pos, "class %s has methods, but no self type defined", c.Name)
	case c.SelfType != "" && !hasStatics && !hasConstructor && !hasMethods:
		return diag.New(c.Pos, "class %s has only a self type, but no methods or constructors", c.Name)
	}
	return nil
}

// EnumItem is one value of an exported enum.
type EnumItem struct {
	Name        string
	HostConst   string // Go constant path backing the item
	DocComments []string
}

// EnumInfo describes one exported enum.
type EnumInfo struct {
	Pos         diag.Pos
	Name        string
	Items       []EnumItem
	DocComments []string
}

// InterfaceMethod is one callback slot of an exported interface.
type InterfaceMethod struct {
	Name        string
	HostFunc    string
	Decl        FnDecl
	DocComments []string
}

// InterfaceInfo describes a callback interface: the foreign side implements
// it, the host side invokes it.
type InterfaceInfo struct {
	Pos         diag.Pos
	Name        string
	SelfType    string // host interface type the callbacks are routed through
	Methods     []InterfaceMethod
	DocComments []string
}

// BindingSet is a fully parsed binding definition file.
type BindingSet struct {
	Source      string
	Package     string // Go package directory the definitions bind against
	PackageName string // declared package name, filled in by the scanner
	Classes     []ClassInfo
	Enums       []EnumInfo
	Interfaces  []InterfaceInfo
}

// GenerationRun is the manifest record of one generate invocation.
type GenerationRun struct {
	ID         string
	Package    string
	Definition string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
}

// Artifact is one file emitted by a generation run.
type Artifact struct {
	RunID  string
	Path   string
	Kind   string // "java", "glue"
	SHA256 string
}

// Mapping is a persisted host-to-foreign type resolution.
type Mapping struct {
	HostType    string
	ForeignType string
	Direction   string // "outgoing" or "incoming"
	CreatedAt   time.Time
}

// AuditLogEntry records one user-visible action in the registry.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
