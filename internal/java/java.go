// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// package java generates the Java side of the bindings plus the cgo glue
// file that exports the matching JNI entry points. Conversion between Go
// and JNI types runs through the shared typemap; this package registers
// the class-specific rules (object handles, enum indexes) and renders the
// final sources.
package java

import (
	"fmt"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/logging"
	"github.com/bridgen/bridgen/internal/model"
	"github.com/bridgen/bridgen/internal/typemap"
)

// Config controls where and how Java sources are emitted.
type Config struct {
	// OutputDir receives the generated .java files.
	OutputDir string
	// PackageName is the Java package of the generated classes.
	PackageName string
	// NullAnnotationPackage, when set, annotates reference-typed
	// parameters and returns, e.g. "androidx.annotation".
	NullAnnotationPackage string
	// GlueFileName is the Go glue file written into the bound package.
	// Defaults to "bridgen_jni.go".
	GlueFileName string
}

func (c *Config) glueFileName() string {
	if c.GlueFileName == "" {
		return "bridgen_jni.go"
	}
	return c.GlueFileName
}

// File is one generated output, written by the caller.
type File struct {
	Path    string
	Kind    string // "java" or "glue"
	Content []byte
}

// Generator renders one binding set.
type Generator struct {
	cfg Config
	tm  *typemap.TypeMap
}

// NewGenerator wires a generator to a typemap already seeded with the
// builtin and user rule modules.
func NewGenerator(cfg Config, tm *typemap.TypeMap) *Generator {
	return &Generator{cfg: cfg, tm: tm}
}

// calcThisType resolves the host type a class hands out: the constructor
// return when there is one, else the self type.
func calcThisType(_ *typemap.TypeMap, class *model.ClassInfo) (string, bool) {
	if class.ConstructorRet != "" {
		return class.ConstructorRet, true
	}
	if class.SelfType != "" {
		return class.SelfType, true
	}
	return "", false
}

// Register installs the conversion rules for every class and enum of the
// binding set. It must run for all classes before any code generation so
// cross-class signatures (one class returning another) resolve.
func (g *Generator) Register(set *model.BindingSet) error {
	for i := range set.Classes {
		if err := g.registerClass(&set.Classes[i]); err != nil {
			return err
		}
	}
	for i := range set.Enums {
		if err := g.registerEnum(&set.Enums[i]); err != nil {
			return err
		}
	}
	for i := range set.Interfaces {
		if err := g.registerInterface(&set.Interfaces[i]); err != nil {
			return err
		}
	}
	return nil
}

// registerInterface connects a callback interface to the jobject carrying
// the Java implementation: incoming arguments are wrapped in the generated
// proxy type.
func (g *Generator) registerInterface(iface *model.InterfaceInfo) error {
	objTy, err := g.tm.FindOrAllocHostTypeWithSuffix("C.jobject", iface.Name)
	if err != nil {
		return diag.New(iface.Pos, "interface %s: %v", iface.Name, err)
	}
	g.tm.AddForeign(objTy, iface.Name)

	hostTy, err := g.tm.FindOrAllocHostType(iface.SelfType)
	if err != nil {
		return diag.New(iface.Pos, "interface %s: %v", iface.Name, err)
	}
	g.tm.AddConversionRule(objTy, hostTy, &typemap.ConvEdge{
		Template: fmt.Sprintf("{to_var} := new%s(env, {from_var})", iface.Name),
	})
	return nil
}

// registerClass connects a class self type to the jlong handle the Java
// object carries: boxing rules outgoing, unboxing rules incoming.
func (g *Generator) registerClass(class *model.ClassInfo) error {
	logging.Debugf("java: register class %s (self type %s)", class.Name, class.SelfTypeOrUnit())

	selfTy, err := g.tm.FindOrAllocHostTypeThatImplements(
		class.SelfTypeOrUnit(), typemap.CapabilityForeignClass)
	if err != nil {
		return diag.New(class.Pos, "class %s: %v", class.Name, err)
	}
	ptrTy, err := g.tm.FindOrAllocHostType("*" + class.SelfTypeOrUnit())
	if err != nil {
		return diag.New(class.Pos, "class %s: %v", class.Name, err)
	}
	// Each class gets its own view of the jlong handle so the foreign
	// name lookup distinguishes Counter handles from plain longs.
	handleTy, err := g.tm.FindOrAllocHostTypeWithSuffix("C.jlong", class.Name)
	if err != nil {
		return diag.New(class.Pos, "class %s: %v", class.Name, err)
	}
	g.tm.AddForeign(handleTy, class.Name)

	g.tm.AddConversionRule(ptrTy, handleTy, &typemap.ConvEdge{
		Template: "{to_var} := C.jlong(cgo.NewHandle({from_var}))",
	})
	g.tm.AddConversionRule(selfTy, handleTy, &typemap.ConvEdge{
		Template: "{to_var} := C.jlong(cgo.NewHandle(&{from_var}))",
	})
	g.tm.AddConversionRule(handleTy, ptrTy, &typemap.ConvEdge{
		Template: fmt.Sprintf("{to_var} := cgo.Handle({from_var}).Value().(*%s)", class.SelfTypeOrUnit()),
	})
	g.tm.AddConversionRule(handleTy, selfTy, &typemap.ConvEdge{
		Template: fmt.Sprintf("{to_var} := *cgo.Handle({from_var}).Value().(*%s)", class.SelfTypeOrUnit()),
	})

	g.tm.CacheHostToForeignConv(ptrTy, typemap.ForeignTypeInfo{Name: class.Name, HostType: handleTy})
	g.tm.CacheHostToForeignConv(selfTy, typemap.ForeignTypeInfo{Name: class.Name, HostType: handleTy})
	g.tm.RegisterClass(class)
	return nil
}

// registerEnum connects an enum to its jint index.
func (g *Generator) registerEnum(enum *model.EnumInfo) error {
	if len(enum.Items) >= 1<<31 {
		return diag.New(enum.Pos, "enum %s: too many items for a jint", enum.Name)
	}
	logging.Debugf("java: register enum %s (%d items)", enum.Name, len(enum.Items))

	enumTy, err := g.tm.FindOrAllocHostType(enum.Name)
	if err != nil {
		return diag.New(enum.Pos, "enum %s: %v", enum.Name, err)
	}
	indexTy, err := g.tm.FindOrAllocHostTypeWithSuffix("C.jint", enum.Name)
	if err != nil {
		return diag.New(enum.Pos, "enum %s: %v", enum.Name, err)
	}
	g.tm.AddForeign(indexTy, enum.Name)

	g.tm.AddConversionRule(enumTy, indexTy, &typemap.ConvEdge{
		Template: "{to_var} := C.jint({from_var})",
	})
	g.tm.AddConversionRule(indexTy, enumTy, &typemap.ConvEdge{
		Template: fmt.Sprintf("{to_var} := %s({from_var})", enum.Name),
	})
	g.tm.CacheHostToForeignConv(enumTy, typemap.ForeignTypeInfo{Name: enum.Name, HostType: indexTy})
	g.tm.RegisterExportedEnum(enum)
	return nil
}

// mappedType is one resolved signature slot: the Java spelling, the JNI
// type the glue trafficks, and the host type the bound function uses.
type mappedType struct {
	javaType string
	jniType  *typemap.HostType
	hostType *typemap.HostType
}

func (m *mappedType) isVoid() bool { return m.hostType == nil }

var voidType = mappedType{javaType: "void"}

// mapType resolves one host type expression for the given direction.
func (g *Generator) mapType(hostTypeSrc string, dir typemap.Direction, pos diag.Pos) (*mappedType, error) {
	if hostTypeSrc == "" {
		v := voidType
		return &v, nil
	}
	hostTy, err := g.tm.FindOrAllocHostType(hostTypeSrc)
	if err != nil {
		return nil, diag.New(pos, "%v", err)
	}
	fi, ok := g.tm.MapThroughConversionToForeign(hostTy, dir, calcThisType)
	if !ok {
		return nil, diag.New(pos, "cannot map type '%s' (%s) to Java", hostTy, dir)
	}
	return &mappedType{
		javaType: javaTypeSpelling(fi.Name),
		jniType:  fi.HostType,
		hostType: hostTy,
	}, nil
}

// Generate renders the Java classes, enums, interfaces and the cgo glue
// for a registered binding set.
func (g *Generator) Generate(set *model.BindingSet) ([]File, error) {
	var files []File
	glue := newGlueFile(set.PackageName)

	if len(set.Classes) > 0 {
		files = append(files, File{
			Path:    g.javaFilePath("InternalPointerMarker"),
			Kind:    "java",
			Content: g.emitPointerMarker(),
		})
	}
	for i := range set.Classes {
		class := &set.Classes[i]
		javaSrc, err := g.emitJavaClass(class)
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Path:    g.javaFilePath(class.Name),
			Kind:    "java",
			Content: javaSrc,
		})
		if err := g.emitClassGlue(glue, class); err != nil {
			return nil, err
		}
	}
	for i := range set.Enums {
		enum := &set.Enums[i]
		files = append(files, File{
			Path:    g.javaFilePath(enum.Name),
			Kind:    "java",
			Content: g.emitJavaEnum(enum),
		})
	}
	for i := range set.Interfaces {
		iface := &set.Interfaces[i]
		javaSrc, err := g.emitJavaInterface(iface)
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Path:    g.javaFilePath(iface.Name),
			Kind:    "java",
			Content: javaSrc,
		})
		if err := g.emitInterfaceGlue(glue, iface); err != nil {
			return nil, err
		}
	}

	for _, code := range g.tm.TakeUtilsCode() {
		glue.addDependency(code)
	}
	files = append(files, File{
		Path:    glueFilePath(set, g.cfg.glueFileName()),
		Kind:    "glue",
		Content: glue.render(),
	})
	return files, nil
}

func (g *Generator) javaFilePath(name string) string {
	return g.cfg.OutputDir + "/" + name + ".java"
}

func glueFilePath(set *model.BindingSet, name string) string {
	return set.Package + "/" + name
}
