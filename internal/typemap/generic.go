// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"go/ast"
)

// GenericRule is a parameterized conversion: it matches families of host
// types ("[]T", "*T", "map[string]T") instead of single nodes and, when it
// fires during path synthesis, stamps out a concrete edge.
type GenericRule struct {
	// Params are the type parameter names used in From and To.
	Params []string
	// From and To are the parsed pattern expressions.
	From ast.Expr
	To   ast.Expr
	// Template is the conversion code for the stamped edge.
	Template string
	// Dependency is an optional glue snippet carried onto stamped edges.
	Dependency string
	// Requires lists capabilities a bound parameter's type must carry,
	// keyed by parameter name.
	Requires map[string][]string
	// ForeignHint, when set, names the foreign type this rule's target
	// corresponds to, with parameter names substituted, e.g. "T []".
	ForeignHint string
}

func (r *GenericRule) paramSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Params))
	for _, p := range r.Params {
		set[p] = struct{}{}
	}
	return set
}

// isConvPossible matches a host type against the rule's From pattern,
// enforces capability requirements on the bound parameters and, on
// success, returns the concrete target expression and its normalized name.
// lookup resolves a bound type name to a known graph node so capability
// checks can consult the committed capability sets.
func (r *GenericRule) isConvPossible(from *HostType, lookup func(string) *HostType) (ast.Expr, string, bool) {
	if from.Expr == nil {
		return nil, "", false
	}
	binds := make(map[string]ast.Expr)
	if !matchPattern(r.From, from.Expr, r.paramSet(), binds) {
		return nil, "", false
	}
	for param, caps := range r.Requires {
		if len(caps) == 0 {
			continue
		}
		bound, ok := binds[param]
		if !ok {
			return nil, "", false
		}
		known := lookup(TypeName(bound))
		if known == nil || !known.ImplementsAll(caps) {
			return nil, "", false
		}
	}
	// Every parameter must be pinned by the match; a free parameter in To
	// would produce an open type.
	for _, p := range r.Params {
		if _, ok := binds[p]; !ok {
			return nil, "", false
		}
	}
	to := substPattern(r.To, binds)
	return to, TypeName(to), true
}
