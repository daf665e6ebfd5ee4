// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package rules

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/model"
)

// Definition is the on-disk schema of a binding definition file: which Go
// package to bind and which classes, enums and callback interfaces to
// export from it.
type Definition struct {
	Package    string         `yaml:"package"`
	Classes    []ClassDef     `yaml:"classes"`
	Enums      []EnumDef      `yaml:"enums"`
	Interfaces []InterfaceDef `yaml:"interfaces"`
}

// ClassDef declares one exported class.
type ClassDef struct {
	Name           string      `yaml:"name"`
	SelfType       string      `yaml:"self_type"`
	ConstructorRet string      `yaml:"constructor_return"`
	CopyDerived    bool        `yaml:"copy_derived"`
	Doc            []string    `yaml:"doc"`
	ForeignCode    string      `yaml:"foreign_code"`
	Methods        []MethodDef `yaml:"methods"`
}

// MethodDef declares one exported method of a class.
type MethodDef struct {
	Func   string   `yaml:"func"`
	Kind   string   `yaml:"kind"` // "constructor", "method", "static"
	Self   string   `yaml:"self"` // "value" or "pointer", methods only
	Alias  string   `yaml:"alias"`
	Access string   `yaml:"access"`
	Args   []ArgDef `yaml:"args"`
	Return string   `yaml:"return"`
	Doc    []string `yaml:"doc"`
}

// ArgDef is one declared argument.
type ArgDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// EnumDef declares one exported enum.
type EnumDef struct {
	Name  string        `yaml:"name"`
	Doc   []string      `yaml:"doc"`
	Items []EnumItemDef `yaml:"items"`
}

// EnumItemDef is one enum value with its backing Go constant.
type EnumItemDef struct {
	Name  string   `yaml:"name"`
	Const string   `yaml:"const"`
	Doc   []string `yaml:"doc"`
}

// InterfaceDef declares one callback interface.
type InterfaceDef struct {
	Name     string               `yaml:"name"`
	SelfType string               `yaml:"self_type"`
	Doc      []string             `yaml:"doc"`
	Methods  []InterfaceMethodDef `yaml:"methods"`
}

// InterfaceMethodDef is one callback slot.
type InterfaceMethodDef struct {
	Name   string   `yaml:"name"`
	Func   string   `yaml:"func"`
	Args   []ArgDef `yaml:"args"`
	Return string   `yaml:"return"`
	Doc    []string `yaml:"doc"`
}

// LoadDefinition reads and validates a binding definition file.
func LoadDefinition(path string) (*model.BindingSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read binding definition: %w", err)
	}
	return ParseDefinition(path, data)
}

// ParseDefinition parses binding definition bytes into the model and
// validates each declared class.
func ParseDefinition(source string, data []byte) (*model.BindingSet, error) {
	var def Definition
	if err := yaml.UnmarshalWithOptions(data, &def, yaml.Strict()); err != nil {
		return nil, diag.New(diag.Pos{Source: source}, "parse binding definition: %v", err)
	}
	if def.Package == "" {
		return nil, diag.New(diag.Pos{Source: source}, "binding definition declares no package")
	}

	set := &model.BindingSet{Source: source, Package: def.Package}

	for i, cd := range def.Classes {
		pos := diag.Pos{Source: source, Entry: i + 1}
		class, err := buildClass(pos, &cd)
		if err != nil {
			return nil, err
		}
		set.Classes = append(set.Classes, *class)
	}
	for i, ed := range def.Enums {
		pos := diag.Pos{Source: source, Entry: i + 1}
		enum, err := buildEnum(pos, &ed)
		if err != nil {
			return nil, err
		}
		set.Enums = append(set.Enums, *enum)
	}
	for i, id := range def.Interfaces {
		pos := diag.Pos{Source: source, Entry: i + 1}
		iface, err := buildInterface(pos, &id)
		if err != nil {
			return nil, err
		}
		set.Interfaces = append(set.Interfaces, *iface)
	}
	return set, nil
}

func buildClass(pos diag.Pos, cd *ClassDef) (*model.ClassInfo, error) {
	if cd.Name == "" {
		return nil, diag.New(pos, "class declares no name")
	}
	class := &model.ClassInfo{
		Pos:            pos,
		Name:           cd.Name,
		SelfType:       cd.SelfType,
		ConstructorRet: cd.ConstructorRet,
		ForeignCode:    cd.ForeignCode,
		DocComments:    cd.Doc,
		CopyDerived:    cd.CopyDerived,
	}
	for j, md := range cd.Methods {
		mpos := diag.Pos{Source: pos.Source, Entry: j + 1}
		method, err := buildMethod(mpos, cd.Name, &md)
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, *method)
	}
	if err := class.Validate(); err != nil {
		return nil, err
	}
	return class, nil
}

func buildMethod(pos diag.Pos, className string, md *MethodDef) (*model.MethodInfo, error) {
	if md.Func == "" {
		return nil, diag.New(pos, "method of class %s declares no func", className)
	}
	method := &model.MethodInfo{
		HostFunc:    md.Func,
		Alias:       md.Alias,
		DocComments: md.Doc,
		Decl: model.FnDecl{
			Pos:    pos,
			Output: md.Return,
		},
	}
	for _, a := range md.Args {
		if a.Name == "" || a.Type == "" {
			return nil, diag.New(pos, "method %s.%s: argument needs name and type", className, md.Func)
		}
		method.Decl.Inputs = append(method.Decl.Inputs, model.Param{Name: a.Name, Type: a.Type})
	}

	switch md.Kind {
	case "constructor":
		method.Variant = model.VariantConstructor
	case "method", "":
		method.Variant = model.VariantMethod
	case "static":
		method.Variant = model.VariantStatic
	default:
		return nil, diag.New(pos, "method %s.%s: unknown kind %q", className, md.Func, md.Kind)
	}

	switch md.Self {
	case "", "value":
		method.Self = model.SelfValue
	case "pointer":
		method.Self = model.SelfPtr
	default:
		return nil, diag.New(pos, "method %s.%s: unknown self %q", className, md.Func, md.Self)
	}

	switch md.Access {
	case "":
		method.Access = model.AccessPublic
	case string(model.AccessPublic), string(model.AccessPrivate), string(model.AccessProtected):
		method.Access = model.MethodAccess(md.Access)
	default:
		return nil, diag.New(pos, "method %s.%s: unknown access %q", className, md.Func, md.Access)
	}
	return method, nil
}

func buildEnum(pos diag.Pos, ed *EnumDef) (*model.EnumInfo, error) {
	if ed.Name == "" {
		return nil, diag.New(pos, "enum declares no name")
	}
	if len(ed.Items) == 0 {
		return nil, diag.New(pos, "enum %s declares no items", ed.Name)
	}
	enum := &model.EnumInfo{Pos: pos, Name: ed.Name, DocComments: ed.Doc}
	for _, item := range ed.Items {
		if item.Name == "" || item.Const == "" {
			return nil, diag.New(pos, "enum %s: item needs name and const", ed.Name)
		}
		enum.Items = append(enum.Items, model.EnumItem{
			Name:        item.Name,
			HostConst:   item.Const,
			DocComments: item.Doc,
		})
	}
	return enum, nil
}

func buildInterface(pos diag.Pos, id *InterfaceDef) (*model.InterfaceInfo, error) {
	if id.Name == "" {
		return nil, diag.New(pos, "interface declares no name")
	}
	if id.SelfType == "" {
		return nil, diag.New(pos, "interface %s declares no self_type", id.Name)
	}
	if len(id.Methods) == 0 {
		return nil, diag.New(pos, "interface %s declares no methods", id.Name)
	}
	iface := &model.InterfaceInfo{
		Pos:         pos,
		Name:        id.Name,
		SelfType:    id.SelfType,
		DocComments: id.Doc,
	}
	for _, md := range id.Methods {
		if md.Name == "" {
			return nil, diag.New(pos, "interface %s: method needs a name", id.Name)
		}
		m := model.InterfaceMethod{
			Name:        md.Name,
			HostFunc:    md.Func,
			DocComments: md.Doc,
			Decl:        model.FnDecl{Pos: pos, Output: md.Return},
		}
		for _, a := range md.Args {
			if a.Name == "" || a.Type == "" {
				return nil, diag.New(pos, "interface %s.%s: argument needs name and type", id.Name, md.Name)
			}
			m.Decl.Inputs = append(m.Decl.Inputs, model.Param{Name: a.Name, Type: a.Type})
		}
		iface.Methods = append(iface.Methods, m)
	}
	return iface, nil
}
