// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package java

import (
	"fmt"
	"strings"

	"github.com/bridgen/bridgen/internal/model"
	"github.com/bridgen/bridgen/internal/typemap"
)

const generatedBanner = "// Automatically generated by bridgen. Do not edit.\n\n"

var javaPrimitives = map[string]struct{}{
	"void": {}, "boolean": {}, "byte": {}, "short": {},
	"int": {}, "long": {}, "float": {}, "double": {},
}

func isJavaPrimitive(javaType string) bool {
	_, ok := javaPrimitives[javaType]
	return ok
}

// javaSignature is the fully mapped signature of one method as the Java
// side sees it.
type javaSignature struct {
	params []mappedType
	ret    mappedType
}

func (g *Generator) mapMethodSignature(method *model.MethodInfo) (*javaSignature, error) {
	sig := &javaSignature{ret: voidType}
	for _, in := range method.Decl.Inputs {
		mt, err := g.mapType(in.Type, typemap.Incoming, method.Decl.Pos)
		if err != nil {
			return nil, err
		}
		sig.params = append(sig.params, *mt)
	}
	if method.Decl.Output != "" {
		mt, err := g.mapType(method.Decl.Output, typemap.Outgoing, method.Decl.Pos)
		if err != nil {
			return nil, err
		}
		sig.ret = *mt
	}
	return sig, nil
}

// annotated prefixes reference types with the configured null annotation.
func (g *Generator) annotated(javaType string) string {
	if g.cfg.NullAnnotationPackage == "" || isJavaPrimitive(javaType) {
		return javaType
	}
	return "@NonNull " + javaType
}

func writeJavadoc(b *strings.Builder, indent string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s/**\n", indent)
	for _, line := range lines {
		fmt.Fprintf(b, "%s * %s\n", indent, strings.TrimSpace(line))
	}
	fmt.Fprintf(b, "%s */\n", indent)
}

func (g *Generator) writeFileHeader(b *strings.Builder) {
	b.WriteString(generatedBanner)
	if g.cfg.PackageName != "" {
		fmt.Fprintf(b, "package %s;\n\n", g.cfg.PackageName)
	}
	if g.cfg.NullAnnotationPackage != "" {
		fmt.Fprintf(b, "import %s.NonNull;\n\n", g.cfg.NullAnnotationPackage)
	}
}

// emitJavaClass renders the public Java class for one exported class.
func (g *Generator) emitJavaClass(class *model.ClassInfo) ([]byte, error) {
	var b strings.Builder
	g.writeFileHeader(&b)

	writeJavadoc(&b, "", class.DocComments)
	fmt.Fprintf(&b, "public final class %s {\n", class.Name)
	hasSelf := class.SelfType != ""
	if hasSelf {
		b.WriteString("    private long mNativeObj;\n\n")
	}

	for i := range class.Methods {
		if err := g.writeJavaMethod(&b, class, &class.Methods[i]); err != nil {
			return nil, err
		}
	}

	if hasSelf {
		g.writeDeleteMethod(&b, class)
		fmt.Fprintf(&b, "    /*package*/ %s(InternalPointerMarker marker, long ptr) {\n", class.Name)
		b.WriteString("        assert marker == InternalPointerMarker.RAW_PTR;\n")
		b.WriteString("        this.mNativeObj = ptr;\n")
		b.WriteString("    }\n")
	}
	if class.ForeignCode != "" {
		b.WriteByte('\n')
		for _, line := range strings.Split(strings.TrimRight(class.ForeignCode, "\n"), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func (g *Generator) writeJavaMethod(b *strings.Builder, class *model.ClassInfo, method *model.MethodInfo) error {
	sig, err := g.mapMethodSignature(method)
	if err != nil {
		return err
	}
	constructor := method.Variant == model.VariantConstructor
	native := nativeMethodName(method.ShortName(), constructor)

	throws := ""
	if method.Decl.MayFail {
		throws = " throws Exception"
	}

	// Public declaration parameter list and the argument expressions the
	// wrapper forwards to the native method.
	var declParams, callArgs, nativeParams []string
	if method.Variant == model.VariantMethod {
		callArgs = append(callArgs, "mNativeObj")
		nativeParams = append(nativeParams, "long self")
	}
	for i, p := range sig.params {
		name := method.Decl.Inputs[i].Name
		declParams = append(declParams, fmt.Sprintf("%s %s", g.annotated(p.javaType), name))
		switch {
		case g.tm.IsGeneratedForeignType(p.javaType) && g.isClassName(p.javaType):
			callArgs = append(callArgs, name+".mNativeObj")
			nativeParams = append(nativeParams, fmt.Sprintf("long %s", name))
		case g.tm.IsGeneratedForeignType(p.javaType):
			// Enums travel as their int index.
			callArgs = append(callArgs, name+".getValue()")
			nativeParams = append(nativeParams, fmt.Sprintf("int %s", name))
		default:
			callArgs = append(callArgs, name)
			nativeParams = append(nativeParams, fmt.Sprintf("%s %s", p.javaType, name))
		}
	}

	writeJavadoc(b, "    ", method.DocComments)
	if constructor {
		fmt.Fprintf(b, "    %s %s(%s)%s {\n",
			method.Access, class.Name, strings.Join(declParams, ", "), throws)
		fmt.Fprintf(b, "        mNativeObj = %s(%s);\n", native, strings.Join(callArgs, ", "))
		b.WriteString("    }\n")
		fmt.Fprintf(b, "    private static native long %s(%s)%s;\n\n",
			native, strings.Join(nativeParams, ", "), throws)
		return nil
	}

	nativeRet, wrapRet := g.nativeReturn(&sig.ret)
	modifier := "final"
	if method.Variant == model.VariantStatic {
		modifier = "static"
	}
	fmt.Fprintf(b, "    %s %s %s %s(%s)%s {\n",
		method.Access, modifier, g.annotated(sig.ret.javaType),
		javaMethodName(method.ShortName()), strings.Join(declParams, ", "), throws)
	call := fmt.Sprintf("%s(%s)", native, strings.Join(callArgs, ", "))
	switch {
	case sig.ret.isVoid():
		fmt.Fprintf(b, "        %s;\n", call)
	case wrapRet != "":
		fmt.Fprintf(b, "        %s ret = %s;\n", nativeRet, call)
		fmt.Fprintf(b, "        %s convRet = %s;\n", sig.ret.javaType, fmt.Sprintf(wrapRet, "ret"))
		b.WriteString("        return convRet;\n")
	default:
		fmt.Fprintf(b, "        return %s;\n", call)
	}
	b.WriteString("    }\n")
	fmt.Fprintf(b, "    private static native %s %s(%s)%s;\n\n",
		nativeRet, native, strings.Join(nativeParams, ", "), throws)
	return nil
}

// nativeReturn maps a Java-facing return type to the native method's
// return type plus an optional wrapping expression (with %s for the raw
// value).
func (g *Generator) nativeReturn(ret *mappedType) (nativeType, wrap string) {
	switch {
	case ret.isVoid():
		return "void", ""
	case g.tm.IsGeneratedForeignType(ret.javaType) && g.isClassName(ret.javaType):
		return "long", fmt.Sprintf("new %s(InternalPointerMarker.RAW_PTR, %%s)", ret.javaType)
	case g.tm.IsGeneratedForeignType(ret.javaType):
		return "int", fmt.Sprintf("%s.fromInt(%%s)", ret.javaType)
	default:
		return ret.javaType, ""
	}
}

func (g *Generator) isClassName(name string) bool {
	for _, c := range g.tm.Classes() {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (g *Generator) writeDeleteMethod(b *strings.Builder, class *model.ClassInfo) {
	b.WriteString("    public synchronized void delete() {\n")
	b.WriteString("        if (mNativeObj != 0) {\n")
	b.WriteString("            do_delete(mNativeObj);\n")
	b.WriteString("            mNativeObj = 0;\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("    private static native void do_delete(long me);\n\n")
	b.WriteString("    @Override\n")
	b.WriteString("    protected void finalize() throws Throwable {\n")
	b.WriteString("        try {\n")
	b.WriteString("            delete();\n")
	b.WriteString("        } finally {\n")
	b.WriteString("            super.finalize();\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")
}

// emitJavaEnum renders a Java enum whose ordinal mirrors the Go constant
// order.
func (g *Generator) emitJavaEnum(enum *model.EnumInfo) []byte {
	var b strings.Builder
	g.writeFileHeader(&b)

	writeJavadoc(&b, "", enum.DocComments)
	fmt.Fprintf(&b, "public enum %s {\n", enum.Name)
	for i, item := range enum.Items {
		writeJavadoc(&b, "    ", item.DocComments)
		sep := ","
		if i == len(enum.Items)-1 {
			sep = ";"
		}
		fmt.Fprintf(&b, "    %s%s\n", item.Name, sep)
	}
	b.WriteString("\n")
	b.WriteString("    int getValue() {\n        return ordinal();\n    }\n\n")
	fmt.Fprintf(&b, "    static %s fromInt(int value) {\n", enum.Name)
	b.WriteString("        switch (value) {\n")
	for i, item := range enum.Items {
		fmt.Fprintf(&b, "        case %d: return %s;\n", i, item.Name)
	}
	fmt.Fprintf(&b, "        default: throw new Error(\"invalid value for enum %s: \" + value);\n", enum.Name)
	b.WriteString("        }\n    }\n")
	b.WriteString("}\n")
	return []byte(b.String())
}

// emitJavaInterface renders the callback interface the foreign side
// implements. Argument types flow outgoing (Go hands values to Java).
func (g *Generator) emitJavaInterface(iface *model.InterfaceInfo) ([]byte, error) {
	var b strings.Builder
	g.writeFileHeader(&b)

	writeJavadoc(&b, "", iface.DocComments)
	fmt.Fprintf(&b, "public interface %s {\n", iface.Name)
	for i := range iface.Methods {
		m := &iface.Methods[i]
		var params []string
		for _, in := range m.Decl.Inputs {
			mt, err := g.mapType(in.Type, typemap.Outgoing, m.Decl.Pos)
			if err != nil {
				return nil, err
			}
			params = append(params, fmt.Sprintf("%s %s", g.annotated(mt.javaType), in.Name))
		}
		ret := "void"
		if m.Decl.Output != "" {
			mt, err := g.mapType(m.Decl.Output, typemap.Incoming, m.Decl.Pos)
			if err != nil {
				return nil, err
			}
			ret = mt.javaType
		}
		writeJavadoc(&b, "    ", m.DocComments)
		fmt.Fprintf(&b, "    %s %s(%s);\n", ret, m.Name, strings.Join(params, ", "))
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

// emitPointerMarker renders the shared marker enum generated classes use
// to distinguish the raw-pointer constructor.
func (g *Generator) emitPointerMarker() []byte {
	var b strings.Builder
	g.writeFileHeader(&b)
	b.WriteString("/*package*/ enum InternalPointerMarker {\n    RAW_PTR\n}\n")
	return []byte(b.String())
}
