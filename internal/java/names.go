// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package java

import (
	"strings"
	"unicode"
)

// javaClassFullName joins the Java package and class name.
func javaClassFullName(pkg, class string) string {
	if pkg == "" {
		return class
	}
	return pkg + "." + class
}

// jniExportName builds the exported symbol JNI looks up for a native
// method: Java_<mangled class>_<mangled method>. Underscores in the
// original names are escaped as "_1" per the JNI specification.
func jniExportName(fullClassName, method string) string {
	var b strings.Builder
	b.WriteString("Java_")
	b.WriteString(mangleJNI(fullClassName))
	b.WriteByte('_')
	b.WriteString(mangleJNI(method))
	return b.String()
}

func mangleJNI(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '.':
			b.WriteByte('_')
		case r == '_':
			b.WriteString("_1")
		case r == '/':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nativeMethodName is the name of the private native method backing a
// generated Java method. Constructors map to "init", everything else gets
// the do_ prefix on the camelCased Java name so the public wrapper can
// keep the clean name.
func nativeMethodName(method string, constructor bool) string {
	if constructor {
		return "init"
	}
	return "do_" + javaMethodName(method)
}

// javaMethodName lower-cases the first rune, turning Go-style exported
// names into Java camelCase.
func javaMethodName(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// javaTypeSpelling turns a foreign type name from the conversion rules
// into valid Java source. Array foreign names carry the element first
// ("Counter []"); Java wants the brackets attached.
func javaTypeSpelling(foreignName string) string {
	return strings.ReplaceAll(foreignName, " []", "[]")
}

// javaSlashedClassName is the class name with dots replaced by slashes,
// used in JNI FindClass signatures.
func javaSlashedClassName(fullClassName string) string {
	return strings.ReplaceAll(fullClassName, ".", "/")
}
