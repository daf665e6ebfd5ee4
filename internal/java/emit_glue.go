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

// glueFile accumulates the generated cgo source: C shims for the prologue,
// helper snippets contributed by conversion edges, and the exported JNI
// functions.
type glueFile struct {
	pkgName string
	cShims  []string
	deps    []string
	depSeen map[string]struct{}
	funcs   []string
}

func newGlueFile(pkgName string) *glueFile {
	return &glueFile{pkgName: pkgName, depSeen: make(map[string]struct{})}
}

// addDependency records a helper snippet, once.
func (f *glueFile) addDependency(code string) {
	code = strings.TrimRight(code, "\n")
	if code == "" {
		return
	}
	if _, ok := f.depSeen[code]; ok {
		return
	}
	f.depSeen[code] = struct{}{}
	f.deps = append(f.deps, code)
}

func (f *glueFile) addDependencies(deps []string) {
	for _, d := range deps {
		f.addDependency(d)
	}
}

func (f *glueFile) addFunc(code string) {
	f.funcs = append(f.funcs, code)
}

func (f *glueFile) addCShim(code string) {
	f.cShims = append(f.cShims, code)
}

const glueCPrologue = `#cgo CFLAGS: -I${JAVA_HOME}/include -I${JAVA_HOME}/include/linux
#include <jni.h>
#include <stdlib.h>

static jclass jni_FindClass(JNIEnv* env, const char* name) {
	return (*env)->FindClass(env, name);
}
static jint jni_ThrowNew(JNIEnv* env, jclass cls, const char* msg) {
	return (*env)->ThrowNew(env, cls, msg);
}
static const char* jni_GetStringUTFChars(JNIEnv* env, jstring s, jboolean* copied) {
	return (*env)->GetStringUTFChars(env, s, copied);
}
static void jni_ReleaseStringUTFChars(JNIEnv* env, jstring s, const char* cs) {
	(*env)->ReleaseStringUTFChars(env, s, cs);
}
static jstring jni_NewStringUTF(JNIEnv* env, const char* cs) {
	return (*env)->NewStringUTF(env, cs);
}`

const glueThrowHelper = `// jniThrowException raises a java.lang.Exception with the given message.
func jniThrowException(env *C.JNIEnv, msg string) {
	cls := C.jni_FindClass(env, exceptionClassNameC)
	if cls == nil {
		return
	}
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	C.jni_ThrowNew(env, cls, cMsg)
}

var exceptionClassNameC = C.CString("java/lang/Exception")`

// render assembles the final Go source of the glue file.
func (f *glueFile) render() []byte {
	var b strings.Builder
	b.WriteString(generatedBanner)
	fmt.Fprintf(&b, "package %s\n\n", f.pkgName)

	b.WriteString("/*\n")
	b.WriteString(glueCPrologue)
	b.WriteByte('\n')
	for _, shim := range f.cShims {
		b.WriteByte('\n')
		b.WriteString(strings.TrimRight(shim, "\n"))
		b.WriteByte('\n')
	}
	b.WriteString("*/\n")
	b.WriteString("import \"C\"\n\n")
	b.WriteString("import (\n\t\"runtime/cgo\"\n\t\"unsafe\"\n)\n\n")
	b.WriteString("var _ cgo.Handle\n\n")
	b.WriteString(glueThrowHelper)
	b.WriteString("\n\n")
	for _, dep := range f.deps {
		b.WriteString(dep)
		b.WriteString("\n\n")
	}
	for _, fn := range f.funcs {
		b.WriteString(fn)
		b.WriteString("\n\n")
	}
	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}

// jniCType strips the cgo qualifier: C.jlong -> jlong.
func jniCType(t *typemap.HostType) string {
	return strings.TrimPrefix(t.String(), "C.")
}

// emitClassGlue writes the exported JNI entry points for one class.
func (g *Generator) emitClassGlue(glue *glueFile, class *model.ClassInfo) error {
	fullName := javaClassFullName(g.cfg.PackageName, class.Name)
	for i := range class.Methods {
		if err := g.emitMethodGlue(glue, class, fullName, &class.Methods[i]); err != nil {
			return err
		}
	}
	if class.SelfType != "" {
		glue.addFunc(fmt.Sprintf(
			"//export %s\nfunc %s(env *C.JNIEnv, cls C.jclass, me C.jlong) {\n\tcgo.Handle(me).Delete()\n}",
			jniExportName(fullName, "do_delete"), jniExportName(fullName, "do_delete")))
	}
	return nil
}

func (g *Generator) emitMethodGlue(glue *glueFile, class *model.ClassInfo, fullName string, method *model.MethodInfo) error {
	constructor := method.Variant == model.VariantConstructor
	export := jniExportName(fullName, nativeMethodName(method.ShortName(), constructor))

	params := []string{"env *C.JNIEnv", "cls C.jclass"}
	var body strings.Builder

	// Receiver.
	callee := method.HostFunc
	if method.Variant == model.VariantMethod {
		params = append(params, "self C.jlong")
		selfSrc := class.SelfType
		if method.Self == model.SelfPtr {
			selfSrc = "*" + class.SelfType
		}
		mt, err := g.mapType(selfSrc, typemap.Incoming, method.Decl.Pos)
		if err != nil {
			return err
		}
		deps, code, err := g.tm.ConvertHostTypes(mt.jniType, mt.hostType, "self", "this", "", method.Decl.Pos)
		if err != nil {
			return err
		}
		glue.addDependencies(deps)
		body.WriteString(code)
		if i := strings.LastIndex(method.HostFunc, "."); i >= 0 {
			callee = "this." + method.HostFunc[i+1:]
		}
	}

	// Arguments.
	var callArgs []string
	for _, in := range method.Decl.Inputs {
		mt, err := g.mapType(in.Type, typemap.Incoming, method.Decl.Pos)
		if err != nil {
			return err
		}
		params = append(params, fmt.Sprintf("%s %s", in.Name, mt.jniType.String()))
		hostVar := "a_" + in.Name
		deps, code, err := g.tm.ConvertHostTypes(mt.jniType, mt.hostType, in.Name, hostVar, "", method.Decl.Pos)
		if err != nil {
			return err
		}
		glue.addDependencies(deps)
		body.WriteString(code)
		callArgs = append(callArgs, hostVar)
	}

	// Return mapping.
	retSrc := method.Decl.Output
	if constructor && class.ConstructorRet != "" {
		retSrc = class.ConstructorRet
	}
	var retMapped *mappedType
	retDecl := ""
	if retSrc != "" {
		mt, err := g.mapType(retSrc, typemap.Outgoing, method.Decl.Pos)
		if err != nil {
			return err
		}
		retMapped = mt
		retDecl = " " + mt.jniType.String()
	}

	// Call.
	call := fmt.Sprintf("%s(%s)", callee, strings.Join(callArgs, ", "))
	switch {
	case retMapped == nil && !method.Decl.MayFail:
		fmt.Fprintf(&body, "\t%s\n", call)
	case retMapped == nil:
		fmt.Fprintf(&body, "\terr := %s\n", call)
	case method.Decl.MayFail:
		fmt.Fprintf(&body, "\tret, err := %s\n", call)
	default:
		fmt.Fprintf(&body, "\tret := %s\n", call)
	}

	if method.Decl.MayFail {
		body.WriteString("\tif err != nil {\n\t\tjniThrowException(env, err.Error())\n")
		if retMapped != nil {
			fmt.Fprintf(&body, "\t\tvar errRet %s\n\t\treturn errRet\n", retMapped.jniType.String())
		} else {
			body.WriteString("\t\treturn\n")
		}
		body.WriteString("\t}\n")
	}

	if retMapped != nil {
		deps, code, err := g.tm.ConvertHostTypes(retMapped.hostType, retMapped.jniType, "ret", "cRet", retMapped.jniType.String(), method.Decl.Pos)
		if err != nil {
			return err
		}
		glue.addDependencies(deps)
		body.WriteString(code)
		body.WriteString("\treturn cRet\n")
	}

	glue.addFunc(fmt.Sprintf("//export %s\nfunc %s(%s)%s {\n%s}",
		export, export, strings.Join(params, ", "), retDecl, body.String()))
	return nil
}

// jniDescriptor builds the JNI type descriptor for a Java type spelling.
func (g *Generator) jniDescriptor(javaType string) string {
	if elem, ok := strings.CutSuffix(javaType, "[]"); ok {
		return "[" + g.jniDescriptor(strings.TrimSpace(elem))
	}
	switch javaType {
	case "void":
		return "V"
	case "boolean":
		return "Z"
	case "byte":
		return "B"
	case "short":
		return "S"
	case "int":
		return "I"
	case "long":
		return "J"
	case "float":
		return "F"
	case "double":
		return "D"
	case "String":
		return "Ljava/lang/String;"
	case "Object":
		return "Ljava/lang/Object;"
	default:
		full := javaClassFullName(g.cfg.PackageName, javaType)
		return "L" + javaSlashedClassName(full) + ";"
	}
}

// callKind maps a JNI return type to the Call<Kind>Method family.
func callKind(jniType string) string {
	switch jniType {
	case "":
		return "Void"
	case "jboolean":
		return "Boolean"
	case "jbyte":
		return "Byte"
	case "jshort":
		return "Short"
	case "jint":
		return "Int"
	case "jlong":
		return "Long"
	case "jfloat":
		return "Float"
	case "jdouble":
		return "Double"
	default:
		return "Object"
	}
}

// emitInterfaceGlue writes a Go proxy type that satisfies the host
// interface by dispatching into a Java object, plus the C shim each
// callback needs.
func (g *Generator) emitInterfaceGlue(glue *glueFile, iface *model.InterfaceInfo) error {
	proxyName := javaMethodName(iface.Name) + "Proxy"

	var methods strings.Builder
	for i := range iface.Methods {
		if err := g.emitCallbackMethod(glue, &methods, iface, proxyName, &iface.Methods[i]); err != nil {
			return err
		}
	}

	glue.addFunc(fmt.Sprintf(
		"// %s dispatches %s callbacks to a Java object implementing %s.\ntype %s struct {\n\tenv *C.JNIEnv\n\tobj C.jobject\n}\n\nfunc new%s(env *C.JNIEnv, obj C.jobject) %s {\n\treturn %s{env: env, obj: obj}\n}\n%s",
		proxyName, iface.SelfType, iface.Name, proxyName,
		iface.Name, iface.SelfType, proxyName, methods.String()))
	return nil
}

func (g *Generator) emitCallbackMethod(glue *glueFile, out *strings.Builder, iface *model.InterfaceInfo, proxyName string, m *model.InterfaceMethod) error {
	// Host-side signature of the callback.
	var hostParams, shimParams, shimArgs, callArgs []string
	shimParams = append(shimParams, "JNIEnv* env", "jobject obj")
	var body strings.Builder
	var descParams []string

	for _, in := range m.Decl.Inputs {
		mt, err := g.mapType(in.Type, typemap.Outgoing, m.Decl.Pos)
		if err != nil {
			return err
		}
		hostParams = append(hostParams, fmt.Sprintf("%s %s", in.Name, in.Type))
		cVar := "c_" + in.Name
		deps, code, err := g.tm.ConvertHostTypes(mt.hostType, mt.jniType, in.Name, cVar, "", m.Decl.Pos)
		if err != nil {
			return err
		}
		glue.addDependencies(deps)
		body.WriteString(code)
		shimParams = append(shimParams, fmt.Sprintf("%s %s", jniCType(mt.jniType), in.Name))
		shimArgs = append(shimArgs, in.Name)
		callArgs = append(callArgs, cVar)
		descParams = append(descParams, g.jniDescriptor(mt.javaType))
	}

	retHost := ""
	retJNI := ""
	retJava := "void"
	var retMapped *mappedType
	if m.Decl.Output != "" {
		mt, err := g.mapType(m.Decl.Output, typemap.Incoming, m.Decl.Pos)
		if err != nil {
			return err
		}
		retMapped = mt
		retHost = " " + m.Decl.Output
		retJNI = jniCType(mt.jniType)
		retJava = mt.javaType
	}

	shimName := fmt.Sprintf("call_%s_%s", iface.Name, m.Name)
	descriptor := fmt.Sprintf("(%s)%s", strings.Join(descParams, ""), g.jniDescriptor(retJava))
	kind := "Void"
	shimRet := "void"
	if retMapped != nil {
		kind = callKind(retJNI)
		shimRet = retJNI
	}

	var shim strings.Builder
	fmt.Fprintf(&shim, "static %s %s(%s) {\n", shimRet, shimName, strings.Join(shimParams, ", "))
	fmt.Fprintf(&shim, "\tjclass cls = (*env)->GetObjectClass(env, obj);\n")
	fmt.Fprintf(&shim, "\tjmethodID id = (*env)->GetMethodID(env, cls, \"%s\", \"%s\");\n", m.Name, descriptor)
	extraArgs := ""
	if len(shimArgs) > 0 {
		extraArgs = ", " + strings.Join(shimArgs, ", ")
	}
	callExpr := fmt.Sprintf("(*env)->Call%sMethod(env, obj, id%s)", kind, extraArgs)
	if retMapped != nil {
		fmt.Fprintf(&shim, "\treturn %s;\n", callExpr)
	} else {
		fmt.Fprintf(&shim, "\t%s;\n", callExpr)
	}
	shim.WriteString("}")
	glue.addCShim(shim.String())

	// Proxy method.
	fmt.Fprintf(out, "\nfunc (p %s) %s(%s)%s {\n", proxyName, m.HostFunc, strings.Join(hostParams, ", "), retHost)
	out.WriteString(body.String())
	allArgs := append([]string{"p.env", "p.obj"}, callArgs...)
	call := fmt.Sprintf("C.%s(%s)", shimName, strings.Join(allArgs, ", "))
	if retMapped == nil {
		fmt.Fprintf(out, "\t%s\n", call)
	} else {
		fmt.Fprintf(out, "\tcR := %s\n", call)
		deps, code, err := g.tm.ConvertHostTypes(retMapped.jniType, retMapped.hostType, "cR", "r", "", m.Decl.Pos)
		if err != nil {
			return err
		}
		glue.addDependencies(deps)
		out.WriteString(code)
		out.WriteString("\treturn r\n")
	}
	out.WriteString("}\n")
	return nil
}
