// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package scan

import (
	"strings"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/logging"
	"github.com/bridgen/bridgen/internal/model"
	"github.com/bridgen/bridgen/internal/typemap"
)

// Resolve checks a binding definition against the parsed package and fills
// in what the definition left implicit: argument lists, return types,
// receiver shapes and doc comments all come from the sources when the
// definition does not spell them out. Declared signatures that contradict
// the sources are errors.
func Resolve(set *model.BindingSet, idx *Index) error {
	set.PackageName = idx.Package
	for i := range set.Classes {
		if err := resolveClass(&set.Classes[i], idx); err != nil {
			return err
		}
	}
	for i := range set.Enums {
		if err := resolveEnum(&set.Enums[i], idx); err != nil {
			return err
		}
	}
	for i := range set.Interfaces {
		iface := &set.Interfaces[i]
		if _, ok := idx.Types[iface.SelfType]; !ok {
			return diag.New(iface.Pos, "interface %s: type %s not declared in package %s",
				iface.Name, iface.SelfType, idx.Package)
		}
	}
	return nil
}

func resolveClass(class *model.ClassInfo, idx *Index) error {
	if class.SelfType != "" {
		if _, ok := idx.Types[class.SelfType]; !ok {
			return diag.New(class.Pos, "class %s: type %s not declared in package %s",
				class.Name, class.SelfType, idx.Package)
		}
	}
	for i := range class.Methods {
		if err := resolveMethod(class, &class.Methods[i], idx); err != nil {
			return err
		}
	}
	return nil
}

func resolveMethod(class *model.ClassInfo, method *model.MethodInfo, idx *Index) error {
	sig, ok := idx.Funcs[method.HostFunc]
	if !ok {
		return diag.New(method.Decl.Pos, "class %s: %s not declared in package %s",
			class.Name, method.HostFunc, idx.Package)
	}
	method.Decl.Pos = sig.Pos

	switch method.Variant {
	case model.VariantConstructor, model.VariantStatic:
		if sig.Receiver != "" {
			return diag.New(sig.Pos, "class %s: %s %s must not have a receiver",
				class.Name, method.Variant, method.HostFunc)
		}
	case model.VariantMethod:
		if sig.Receiver != class.SelfType {
			return diag.New(sig.Pos, "class %s: method %s has receiver %q, want %q",
				class.Name, method.HostFunc, sig.Receiver, class.SelfType)
		}
		// Receiver shape comes from the source.
		if sig.PtrRecv {
			method.Self = model.SelfPtr
		} else {
			method.Self = model.SelfValue
		}
	}

	if len(method.Decl.Inputs) == 0 {
		method.Decl.Inputs = append([]model.Param(nil), sig.Inputs...)
	} else if err := checkInputs(method, sig); err != nil {
		return err
	}

	if err := resolveOutput(class, method, sig); err != nil {
		return err
	}

	if len(method.DocComments) == 0 {
		method.DocComments = sig.Doc
	}
	return nil
}

func checkInputs(method *model.MethodInfo, sig *FuncSig) error {
	if len(method.Decl.Inputs) != len(sig.Inputs) {
		return diag.New(sig.Pos, "%s: declared %d arguments, source has %d",
			method.HostFunc, len(method.Decl.Inputs), len(sig.Inputs))
	}
	for i, declared := range method.Decl.Inputs {
		want, err := typemap.NormalizeTypeName(sig.Inputs[i].Type)
		if err != nil {
			return diag.New(sig.Pos, "%s: %v", method.HostFunc, err)
		}
		got, err := typemap.NormalizeTypeName(declared.Type)
		if err != nil {
			return diag.New(method.Decl.Pos, "%s: %v", method.HostFunc, err)
		}
		if got != want {
			return diag.New(sig.Pos, "%s: argument %s declared as %s, source has %s",
				method.HostFunc, declared.Name, got, want)
		}
	}
	return nil
}

func resolveOutput(class *model.ClassInfo, method *model.MethodInfo, sig *FuncSig) error {
	switch len(sig.Results) {
	case 0:
		if method.Decl.Output != "" {
			return diag.New(sig.Pos, "%s: declared return %s, source returns nothing",
				method.HostFunc, method.Decl.Output)
		}
	case 1:
		if sig.Results[0] == "error" {
			method.Decl.MayFail = true
			if method.Decl.Output != "" && method.Decl.Output != "error" {
				return diag.New(sig.Pos, "%s: declared return %s, source returns only error",
					method.HostFunc, method.Decl.Output)
			}
			method.Decl.Output = ""
			break
		}
		if err := matchOutput(method, sig, sig.Results[0]); err != nil {
			return err
		}
	case 2:
		if sig.Results[1] != "error" {
			return diag.New(sig.Pos, "%s: two results are only supported as (T, error)", method.HostFunc)
		}
		method.Decl.MayFail = true
		if err := matchOutput(method, sig, sig.Results[0]); err != nil {
			return err
		}
	default:
		return diag.New(sig.Pos, "%s: %d results are not supported", method.HostFunc, len(sig.Results))
	}

	if method.Variant == model.VariantConstructor && class.ConstructorRet == "" {
		class.ConstructorRet = method.Decl.Output
		logging.Debugf("scan: class %s constructor returns %s", class.Name, class.ConstructorRet)
	}
	return nil
}

func matchOutput(method *model.MethodInfo, sig *FuncSig, source string) error {
	want, err := typemap.NormalizeTypeName(source)
	if err != nil {
		return diag.New(sig.Pos, "%s: %v", method.HostFunc, err)
	}
	if method.Decl.Output == "" {
		method.Decl.Output = want
		return nil
	}
	got, err := typemap.NormalizeTypeName(method.Decl.Output)
	if err != nil {
		return diag.New(method.Decl.Pos, "%s: %v", method.HostFunc, err)
	}
	if got != want {
		return diag.New(sig.Pos, "%s: declared return %s, source has %s",
			method.HostFunc, got, want)
	}
	method.Decl.Output = got
	return nil
}

func resolveEnum(enum *model.EnumInfo, idx *Index) error {
	for _, item := range enum.Items {
		name := item.HostConst
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if _, ok := idx.Consts[name]; !ok {
			return diag.New(enum.Pos, "enum %s: constant %s not declared in package %s",
				enum.Name, item.HostConst, idx.Package)
		}
	}
	return nil
}
