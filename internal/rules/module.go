// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// package rules loads conversion rule modules and binding definition files.
// Both are YAML. A rule module contributes host/foreign type pairs,
// conversion edges, generic rules and helper snippets; the loader stages all
// of it into a fresh TypeMap the caller merges into the main one.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/typemap"
)

// Module is the on-disk schema of a conversion rule module.
type Module struct {
	ID          string       `yaml:"id"`
	Types       []TypePair   `yaml:"types"`
	Conversions []Conversion `yaml:"conversions"`
	Generics    []Generic    `yaml:"generics"`
	Utils       []string     `yaml:"utils"`
}

// TypePair binds a foreign type name to the host type the glue uses for it.
type TypePair struct {
	Host       string `yaml:"host"`
	Foreign    string `yaml:"foreign"`
	Implements string `yaml:"implements"`
}

// Conversion is one directed edge between two host types.
type Conversion struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	Template   string `yaml:"template"`
	Dependency string `yaml:"dependency"`
}

// Generic is one parameterized conversion rule.
type Generic struct {
	Params      []string            `yaml:"params"`
	From        string              `yaml:"from"`
	To          string              `yaml:"to"`
	Template    string              `yaml:"template"`
	Dependency  string              `yaml:"dependency"`
	Requires    map[string][]string `yaml:"requires"`
	ForeignHint string              `yaml:"foreign_hint"`
}

// LoadModule reads a rule module from disk and stages it into a TypeMap.
// The returned id falls back to the file name when the module declares
// none.
func LoadModule(path string) (string, *typemap.TypeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read rule module: %w", err)
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseModule(id, data)
}

// ParseModule parses rule module bytes and stages them into a TypeMap
// ready to be merged. The defaultID is used when the module declares no id.
func ParseModule(defaultID string, data []byte) (string, *typemap.TypeMap, error) {
	var mod Module
	if err := yaml.UnmarshalWithOptions(data, &mod, yaml.Strict()); err != nil {
		return "", nil, diag.New(diag.Pos{Source: defaultID}, "parse rule module: %v", err)
	}
	id := mod.ID
	if id == "" {
		id = defaultID
	}
	tm, err := stageModule(id, &mod)
	if err != nil {
		return "", nil, err
	}
	return id, tm, nil
}

func stageModule(id string, mod *Module) (*typemap.TypeMap, error) {
	tm := typemap.NewEmpty()

	for i, pair := range mod.Types {
		pos := diag.Pos{Source: id, Entry: i + 1}
		if pair.Host == "" || pair.Foreign == "" {
			return nil, diag.New(pos, "type pair needs both host and foreign names")
		}
		var host *typemap.HostType
		var err error
		if pair.Implements != "" {
			host, err = tm.FindOrAllocHostTypeThatImplements(pair.Host, pair.Implements)
		} else {
			host, err = tm.FindOrAllocHostType(pair.Host)
		}
		if err != nil {
			return nil, diag.New(pos, "%v", err)
		}
		tm.AddForeign(host, pair.Foreign)
	}

	for i, conv := range mod.Conversions {
		pos := diag.Pos{Source: id, Entry: i + 1}
		if err := typemap.ValidateCodeTemplate(pos, conv.Template); err != nil {
			return nil, err
		}
		from, err := tm.FindOrAllocHostType(conv.From)
		if err != nil {
			return nil, diag.New(pos, "%v", err)
		}
		to, err := tm.FindOrAllocHostType(conv.To)
		if err != nil {
			return nil, diag.New(pos, "%v", err)
		}
		tm.AddConversionRule(from, to, &typemap.ConvEdge{
			Template:   strings.TrimRight(conv.Template, "\n"),
			Dependency: conv.Dependency,
		})
	}

	for i, gen := range mod.Generics {
		pos := diag.Pos{Source: id, Entry: i + 1}
		rule, err := buildGenericRule(pos, &gen)
		if err != nil {
			return nil, err
		}
		tm.AddGenericRule(rule)
	}

	for _, code := range mod.Utils {
		tm.AddUtilsCode(code)
	}
	return tm, nil
}

func buildGenericRule(pos diag.Pos, gen *Generic) (*typemap.GenericRule, error) {
	if len(gen.Params) == 0 {
		return nil, diag.New(pos, "generic rule %s -> %s declares no params", gen.From, gen.To)
	}
	if err := typemap.ValidateCodeTemplate(pos, gen.Template); err != nil {
		return nil, err
	}
	fromExpr, err := typemap.ParseTypeExpr(gen.From)
	if err != nil {
		return nil, diag.New(pos, "%v", err)
	}
	toExpr, err := typemap.ParseTypeExpr(gen.To)
	if err != nil {
		return nil, diag.New(pos, "%v", err)
	}
	params := make(map[string]struct{}, len(gen.Params))
	for _, p := range gen.Params {
		params[p] = struct{}{}
	}
	for p := range gen.Requires {
		if _, ok := params[p]; !ok {
			return nil, diag.New(pos, "requires references unknown param %q", p)
		}
	}
	return &typemap.GenericRule{
		Params:      gen.Params,
		From:        fromExpr,
		To:          toExpr,
		Template:    strings.TrimRight(gen.Template, "\n"),
		Dependency:  gen.Dependency,
		Requires:    gen.Requires,
		ForeignHint: gen.ForeignHint,
	}, nil
}
