// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// package scan parses the Go package a binding definition targets and
// resolves the definition against what the sources actually declare:
// missing signatures are filled in from the parsed declarations, declared
// ones are checked against them, and doc comments are carried over to the
// generated foreign classes.
package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/logging"
	"github.com/bridgen/bridgen/internal/model"
)

// FuncSig is the parsed signature of a package-level function or method.
type FuncSig struct {
	Pos      diag.Pos
	Receiver string // normalized receiver type without pointer, "" for functions
	PtrRecv  bool
	Inputs   []model.Param
	Results  []string
	Doc      []string
}

// ReturnsValueAndError reports the (T, error) shape constructors and
// fallible methods use.
func (s *FuncSig) ReturnsValueAndError() bool {
	return len(s.Results) == 2 && s.Results[1] == "error"
}

// Index is everything the resolver needs from a parsed package.
type Index struct {
	Package string
	Funcs   map[string]*FuncSig // "NewCounter" or "Counter.Add"
	Types   map[string]diag.Pos // declared type names
	Consts  map[string]diag.Pos // declared package-level constants
}

// Package parses all non-test Go files of a directory into an Index.
func Package(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan package: %w", err)
	}
	idx := &Index{
		Funcs:  make(map[string]*FuncSig),
		Types:  make(map[string]diag.Pos),
		Consts: make(map[string]diag.Pos),
	}
	fset := token.NewFileSet()
	parsed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		if idx.Package == "" {
			idx.Package = file.Name.Name
		} else if idx.Package != file.Name.Name {
			// Ignore secondary packages in the same directory (e.g. main
			// in example files); the first one wins.
			logging.Debugf("scan: skipping file %s of package %s", name, file.Name.Name)
			continue
		}
		idx.addFile(fset, file)
		parsed++
	}
	if parsed == 0 {
		return nil, fmt.Errorf("scan package: no Go files in %s", dir)
	}
	logging.Debugf("scan: %s: %d funcs, %d types, %d consts",
		dir, len(idx.Funcs), len(idx.Types), len(idx.Consts))
	return idx, nil
}

func (idx *Index) addFile(fset *token.FileSet, file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			idx.addFunc(fset, d)
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					idx.Types[s.Name.Name] = posOf(fset, s.Pos())
				case *ast.ValueSpec:
					if d.Tok == token.CONST {
						for _, name := range s.Names {
							idx.Consts[name.Name] = posOf(fset, name.Pos())
						}
					}
				}
			}
		}
	}
}

func (idx *Index) addFunc(fset *token.FileSet, d *ast.FuncDecl) {
	sig := &FuncSig{Pos: posOf(fset, d.Pos())}
	key := d.Name.Name
	if d.Recv != nil && len(d.Recv.List) == 1 {
		recvTy := d.Recv.List[0].Type
		if star, ok := recvTy.(*ast.StarExpr); ok {
			sig.PtrRecv = true
			recvTy = star.X
		}
		sig.Receiver = types.ExprString(recvTy)
		key = sig.Receiver + "." + d.Name.Name
	}
	if d.Type.Params != nil {
		for _, field := range d.Type.Params.List {
			ty := types.ExprString(field.Type)
			if len(field.Names) == 0 {
				sig.Inputs = append(sig.Inputs, model.Param{Name: "_", Type: ty})
				continue
			}
			for _, name := range field.Names {
				sig.Inputs = append(sig.Inputs, model.Param{Name: name.Name, Type: ty})
			}
		}
	}
	if d.Type.Results != nil {
		for _, field := range d.Type.Results.List {
			ty := types.ExprString(field.Type)
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				sig.Results = append(sig.Results, ty)
			}
		}
	}
	if d.Doc != nil {
		for _, c := range strings.Split(strings.TrimRight(d.Doc.Text(), "\n"), "\n") {
			sig.Doc = append(sig.Doc, c)
		}
	}
	idx.Funcs[key] = sig
}

func posOf(fset *token.FileSet, p token.Pos) diag.Pos {
	position := fset.Position(p)
	return diag.Pos{Source: filepath.Base(position.Filename), Line: position.Line}
}
