// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
)

// ParseTypeExpr parses a Go type expression such as "[]C.jint", "*Counter"
// or "map[string]int64".
func ParseTypeExpr(src string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("invalid type expression %q: %w", src, err)
	}
	return expr, nil
}

// TypeName returns the canonical spelling of a type expression. All graph
// node names go through this so lookups are whitespace-insensitive.
func TypeName(expr ast.Expr) string {
	return types.ExprString(expr)
}

// NormalizeTypeName parses and reprints a type expression string.
func NormalizeTypeName(src string) (string, error) {
	expr, err := ParseTypeExpr(src)
	if err != nil {
		return "", err
	}
	return TypeName(expr), nil
}

// matchPattern structurally matches a concrete type expression against a
// rule pattern, binding pattern parameters on the way. A parameter already
// bound must rebind to an identical type.
func matchPattern(pattern, concrete ast.Expr, params map[string]struct{}, binds map[string]ast.Expr) bool {
	switch p := pattern.(type) {
	case *ast.Ident:
		if _, isParam := params[p.Name]; isParam {
			if prev, ok := binds[p.Name]; ok {
				return TypeName(prev) == TypeName(concrete)
			}
			binds[p.Name] = concrete
			return true
		}
		c, ok := concrete.(*ast.Ident)
		return ok && c.Name == p.Name
	case *ast.SelectorExpr:
		c, ok := concrete.(*ast.SelectorExpr)
		if !ok || p.Sel.Name != c.Sel.Name {
			return false
		}
		return matchPattern(p.X, c.X, params, binds)
	case *ast.StarExpr:
		c, ok := concrete.(*ast.StarExpr)
		return ok && matchPattern(p.X, c.X, params, binds)
	case *ast.ArrayType:
		c, ok := concrete.(*ast.ArrayType)
		if !ok {
			return false
		}
		// Slices only; fixed-size arrays never appear in binding surfaces.
		if p.Len != nil || c.Len != nil {
			return false
		}
		return matchPattern(p.Elt, c.Elt, params, binds)
	case *ast.MapType:
		c, ok := concrete.(*ast.MapType)
		if !ok {
			return false
		}
		return matchPattern(p.Key, c.Key, params, binds) &&
			matchPattern(p.Value, c.Value, params, binds)
	case *ast.IndexExpr:
		c, ok := concrete.(*ast.IndexExpr)
		if !ok {
			return false
		}
		return matchPattern(p.X, c.X, params, binds) &&
			matchPattern(p.Index, c.Index, params, binds)
	case *ast.IndexListExpr:
		c, ok := concrete.(*ast.IndexListExpr)
		if !ok || len(p.Indices) != len(c.Indices) {
			return false
		}
		if !matchPattern(p.X, c.X, params, binds) {
			return false
		}
		for i := range p.Indices {
			if !matchPattern(p.Indices[i], c.Indices[i], params, binds) {
				return false
			}
		}
		return true
	case *ast.ParenExpr:
		return matchPattern(p.X, concrete, params, binds)
	default:
		// Opaque node kinds fall back to printed equality.
		return TypeName(pattern) == TypeName(concrete)
	}
}

// substPattern builds a fresh expression from a pattern with its parameters
// replaced by their bindings.
func substPattern(pattern ast.Expr, binds map[string]ast.Expr) ast.Expr {
	switch p := pattern.(type) {
	case *ast.Ident:
		if bound, ok := binds[p.Name]; ok {
			return bound
		}
		return ast.NewIdent(p.Name)
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{
			X:   substPattern(p.X, binds),
			Sel: ast.NewIdent(p.Sel.Name),
		}
	case *ast.StarExpr:
		return &ast.StarExpr{X: substPattern(p.X, binds)}
	case *ast.ArrayType:
		return &ast.ArrayType{Elt: substPattern(p.Elt, binds)}
	case *ast.MapType:
		return &ast.MapType{
			Key:   substPattern(p.Key, binds),
			Value: substPattern(p.Value, binds),
		}
	case *ast.IndexExpr:
		return &ast.IndexExpr{
			X:     substPattern(p.X, binds),
			Index: substPattern(p.Index, binds),
		}
	case *ast.IndexListExpr:
		out := &ast.IndexListExpr{X: substPattern(p.X, binds)}
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, substPattern(idx, binds))
		}
		return out
	case *ast.ParenExpr:
		return substPattern(p.X, binds)
	default:
		return pattern
	}
}
