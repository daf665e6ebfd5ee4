// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"strings"
	"testing"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/model"
)

func mustHostType(t *testing.T, tm *TypeMap, src string) *HostType {
	t.Helper()
	ht, err := tm.FindOrAllocHostType(src)
	if err != nil {
		t.Fatalf("FindOrAllocHostType(%q): %v", src, err)
	}
	return ht
}

func addRule(t *testing.T, tm *TypeMap, from, to, template string) {
	t.Helper()
	tm.AddConversionRule(mustHostType(t, tm, from), mustHostType(t, tm, to),
		&ConvEdge{Template: template})
}

func TestNormalizeTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"*  Counter", "*Counter"},
		{"[] C.jint", "[]C.jint"},
		{"map[ string ] int64", "map[string]int64"},
		{"C.jlong", "C.jlong"},
	}
	for _, tt := range tests {
		got, err := NormalizeTypeName(tt.in)
		if err != nil {
			t.Fatalf("NormalizeTypeName(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeTypeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueTypename(t *testing.T) {
	name := MakeUniqueTypename("C.jobject", "Counter")
	if name == "C.jobject" {
		t.Fatal("suffixed name must differ from base name")
	}
	if got := UnpackUniqueTypename(name); got != "C.jobject" {
		t.Errorf("UnpackUniqueTypename = %q, want C.jobject", got)
	}
}

func TestValidateCodeTemplate(t *testing.T) {
	if err := ValidateCodeTemplate(diag.Pos{}, "{to_var} := {to_var_type}({from_var})"); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := ValidateCodeTemplate(diag.Pos{}, "{to_var} := 0"); err == nil {
		t.Error("template without {from_var} accepted")
	}
}

func TestConvertHostTypesDirect(t *testing.T) {
	tm := New()
	addRule(t, tm, "C.jboolean", "bool", "{to_var} := {from_var} != 0")

	from := mustHostType(t, tm, "C.jboolean")
	to := mustHostType(t, tm, "bool")
	deps, code, err := tm.ConvertHostTypes(from, to, "arg", "flag", "C.jint", diag.Pos{})
	if err != nil {
		t.Fatalf("ConvertHostTypes: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("unexpected deps: %v", deps)
	}
	if want := "\tflag := arg != 0\n"; code != want {
		t.Errorf("code = %q, want %q", code, want)
	}
}

func TestConvertHostTypesMultiStep(t *testing.T) {
	tm := New()
	addRule(t, tm, "C.jint", "int32", "{to_var} := int32({from_var})")
	addRule(t, tm, "int32", "int", "{to_var} := int({from_var})")

	from := mustHostType(t, tm, "C.jint")
	to := mustHostType(t, tm, "int")
	_, code, err := tm.ConvertHostTypes(from, to, "arg", "n", "", diag.Pos{})
	if err != nil {
		t.Fatalf("ConvertHostTypes: %v", err)
	}
	// The intermediate step gets its own variable.
	want := "\tn_0 := int32(arg)\n\tn := int(n_0)\n"
	if code != want {
		t.Errorf("code = %q, want %q", code, want)
	}
}

func TestConvertHostTypesNoPath(t *testing.T) {
	tm := New()
	from := mustHostType(t, tm, "C.jstring")
	to := mustHostType(t, tm, "float64")
	if _, _, err := tm.ConvertHostTypes(from, to, "x", "y", "", diag.Pos{}); err == nil {
		t.Fatal("expected error for unconnected types")
	}
}

func TestConvertHostTypesSameType(t *testing.T) {
	tm := New()
	ht := mustHostType(t, tm, "int64")
	deps, code, err := tm.ConvertHostTypes(ht, ht, "v", "v", "", diag.Pos{})
	if err != nil {
		t.Fatalf("ConvertHostTypes: %v", err)
	}
	if code != "" || len(deps) != 0 {
		t.Errorf("identity conversion must be empty, got code=%q deps=%v", code, deps)
	}
}

func TestEdgeDependencyEmittedOnce(t *testing.T) {
	tm := New()
	from := mustHostType(t, tm, "C.jstring")
	to := mustHostType(t, tm, "string")
	tm.AddConversionRule(from, to, &ConvEdge{
		Template:   "{to_var} := fromJavaString(env, {from_var})",
		Dependency: "func fromJavaString(env *C.JNIEnv, s C.jstring) string { /* ... */ }",
	})

	deps, _, err := tm.ConvertHostTypes(from, to, "s", "gs", "", diag.Pos{})
	if err != nil {
		t.Fatalf("first conversion: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("first conversion deps = %v, want one snippet", deps)
	}
	deps, _, err = tm.ConvertHostTypes(from, to, "s", "gs", "", diag.Pos{})
	if err != nil {
		t.Fatalf("second conversion: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("dependency emitted twice: %v", deps)
	}
}

func TestDefaultGenericRulesBuildPointerPath(t *testing.T) {
	tm := New()
	// Only the value type and a rule from its pointer are registered; the
	// path value -> pointer must be synthesized by the builtin T -> *T rule.
	addRule(t, tm, "*Counter", "C.jlong", "{to_var} := toHandle({from_var})")

	from := mustHostType(t, tm, "Counter")
	to := mustHostType(t, tm, "C.jlong")
	_, code, err := tm.ConvertHostTypes(from, to, "c", "h", "", diag.Pos{})
	if err != nil {
		t.Fatalf("ConvertHostTypes: %v", err)
	}
	want := "\th_0 := &c\n\th := toHandle(h_0)\n"
	if code != want {
		t.Errorf("code = %q, want %q", code, want)
	}
}

func TestGenericRuleWithRequires(t *testing.T) {
	tm := New()
	fromExpr, err := ParseTypeExpr("[]T")
	if err != nil {
		t.Fatal(err)
	}
	toExpr, err := ParseTypeExpr("C.jobjectArray")
	if err != nil {
		t.Fatal(err)
	}
	tm.AddGenericRule(&GenericRule{
		Params:   []string{"T"},
		From:     fromExpr,
		To:       toExpr,
		Template: "{to_var} := classSliceToJava(env, {from_var})",
		Requires: map[string][]string{"T": {CapabilityForeignClass}},
	})

	if _, err := tm.FindOrAllocHostTypeThatImplements("Counter", CapabilityForeignClass); err != nil {
		t.Fatal(err)
	}
	mustHostType(t, tm, "Plain")

	from := mustHostType(t, tm, "[]Counter")
	to := mustHostType(t, tm, "C.jobjectArray")
	if _, _, err := tm.ConvertHostTypes(from, to, "xs", "arr", "", diag.Pos{}); err != nil {
		t.Fatalf("conversion for capable element type failed: %v", err)
	}

	badFrom := mustHostType(t, tm, "[]Plain")
	if _, _, err := tm.ConvertHostTypes(badFrom, to, "xs", "arr", "", diag.Pos{}); err == nil {
		t.Fatal("conversion succeeded although element type lacks the capability")
	}
}

func TestTryBuildPathRollsBackOnFailure(t *testing.T) {
	tm := New()
	mustHostType(t, tm, "Counter")
	mustHostType(t, tm, "C.jstring")
	nodes, edges := tm.NodeCount(), tm.EdgeCount()

	from, _ := tm.HostTypeByName("Counter")
	to, _ := tm.HostTypeByName("C.jstring")
	if _, _, err := tm.ConvertHostTypes(from, to, "c", "h", "", diag.Pos{}); err == nil {
		t.Fatal("expected failure: no rule reaches C.jstring")
	}
	if tm.NodeCount() != nodes || tm.EdgeCount() != edges {
		t.Errorf("failed synthesis leaked graph state: nodes %d->%d edges %d->%d",
			nodes, tm.NodeCount(), edges, tm.EdgeCount())
	}
}

func TestMergeKeepsExistingEdge(t *testing.T) {
	base := New()
	addRule(t, base, "C.jboolean", "bool", "{to_var} := {from_var} != 0")

	module := New()
	addRule(t, module, "C.jboolean", "bool", "{to_var} := {from_var} == 1")
	addRule(t, module, "bool", "C.jboolean", "{to_var} := boolToJava({from_var})")

	if err := base.Merge("jni_builtin", module); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	from, _ := base.HostTypeByName("C.jboolean")
	to, _ := base.HostTypeByName("bool")
	_, code, err := base.ConvertHostTypes(from, to, "b", "gb", "", diag.Pos{})
	if err != nil {
		t.Fatalf("ConvertHostTypes: %v", err)
	}
	if !strings.Contains(code, "!= 0") {
		t.Errorf("merge replaced existing conversion, got %q", code)
	}
	// The non-conflicting reverse edge must have been adopted.
	if _, _, err := base.ConvertHostTypes(to, from, "b", "jb", "", diag.Pos{}); err != nil {
		t.Errorf("reverse conversion missing after merge: %v", err)
	}
}

func TestMergeUnionsCapabilities(t *testing.T) {
	base := New()
	mustHostType(t, base, "Counter")

	module := New()
	if _, err := module.FindOrAllocHostTypeThatImplements("Counter", CapabilityForeignClass); err != nil {
		t.Fatal(err)
	}
	if err := base.Merge("defs", module); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	ht, ok := base.HostTypeByName("Counter")
	if !ok {
		t.Fatal("Counter lost during merge")
	}
	if !ht.Implements(CapabilityForeignClass) {
		t.Error("capability not unioned during merge")
	}
}

func TestMapThroughConversionToForeign(t *testing.T) {
	tm := New()
	jint := mustHostType(t, tm, "C.jint")
	tm.AddForeign(jint, "int")
	addRule(t, tm, "int32", "C.jint", "{to_var} := C.jint({from_var})")
	addRule(t, tm, "C.jint", "int32", "{to_var} := int32({from_var})")

	host := mustHostType(t, tm, "int32")
	fi, ok := tm.MapThroughConversionToForeign(host, Outgoing, nil)
	if !ok {
		t.Fatal("outgoing mapping failed")
	}
	if fi.Name != "int" {
		t.Errorf("foreign name = %q, want int", fi.Name)
	}
	fi, ok = tm.MapThroughConversionToForeign(host, Incoming, nil)
	if !ok {
		t.Fatal("incoming mapping failed")
	}
	if fi.Name != "int" {
		t.Errorf("foreign name = %q, want int", fi.Name)
	}
}

func TestMapThroughConversionPrefersCache(t *testing.T) {
	tm := New()
	jlong := mustHostType(t, tm, "C.jlong")
	tm.AddForeign(jlong, "long")
	addRule(t, tm, "*Counter", "C.jlong", "{to_var} := toHandle({from_var})")

	self := mustHostType(t, tm, "*Counter")
	tm.CacheHostToForeignConv(self, ForeignTypeInfo{Name: "Counter", HostType: jlong})

	fi, ok := tm.MapThroughConversionToForeign(self, Outgoing, nil)
	if !ok {
		t.Fatal("mapping failed")
	}
	if fi.Name != "Counter" {
		t.Errorf("foreign name = %q, want class name from cache", fi.Name)
	}
}

func TestMapThroughConversionProposesFromHint(t *testing.T) {
	tm := New()
	jobj := mustHostType(t, tm, "C.jobjectArray")
	tm.AddForeign(jobj, "Object []")

	fromExpr, _ := ParseTypeExpr("[]T")
	toExpr, _ := ParseTypeExpr("C.jobjectArray")
	tm.AddGenericRule(&GenericRule{
		Params:      []string{"T"},
		From:        fromExpr,
		To:          toExpr,
		Template:    "{to_var} := classSliceToJava(env, {from_var})",
		Requires:    map[string][]string{"T": {CapabilityForeignClass}},
		ForeignHint: "T []",
	})

	if _, err := tm.FindOrAllocHostTypeThatImplements("Counter", CapabilityForeignClass); err != nil {
		t.Fatal(err)
	}
	tm.RegisterClass(&model.ClassInfo{Name: "Counter", SelfType: "Counter"})

	calc := func(tm *TypeMap, class *model.ClassInfo) (string, bool) {
		return class.SelfTypeOrUnit(), true
	}
	host := mustHostType(t, tm, "[]Counter")
	fi, ok := tm.MapThroughConversionToForeign(host, Outgoing, calc)
	if !ok {
		t.Fatal("hinted mapping failed")
	}
	if fi.Name != "Counter []" {
		t.Errorf("foreign name = %q, want \"Counter []\"", fi.Name)
	}
}

func TestMapThroughConversionHintWinsOverGenericForeign(t *testing.T) {
	tm := New()
	jobj := mustHostType(t, tm, "C.jobjectArray")
	tm.AddForeign(jobj, "Object []")

	fromExpr, _ := ParseTypeExpr("[]T")
	toExpr, _ := ParseTypeExpr("C.jobjectArray")
	tm.AddGenericRule(&GenericRule{
		Params:      []string{"T"},
		From:        fromExpr,
		To:          toExpr,
		Template:    "{to_var} := classSliceToJava(env, {from_var})",
		Requires:    map[string][]string{"T": {CapabilityForeignClass}},
		ForeignHint: "T []",
	})

	// Widget sorts after Object, so the specific view must win on its
	// own merits rather than by name order.
	if _, err := tm.FindOrAllocHostTypeThatImplements("Widget", CapabilityForeignClass); err != nil {
		t.Fatal(err)
	}
	tm.RegisterClass(&model.ClassInfo{Name: "Widget", SelfType: "Widget"})

	calc := func(tm *TypeMap, class *model.ClassInfo) (string, bool) {
		return class.SelfTypeOrUnit(), true
	}
	host := mustHostType(t, tm, "[]Widget")
	fi, ok := tm.MapThroughConversionToForeign(host, Outgoing, calc)
	if !ok {
		t.Fatal("hinted mapping failed")
	}
	if fi.Name != "Widget []" {
		t.Errorf("foreign name = %q, want \"Widget []\"", fi.Name)
	}
}

func TestFindClassBySelfType(t *testing.T) {
	tm := New()
	tm.RegisterClass(&model.ClassInfo{Name: "Counter", SelfType: "Counter"})

	byValue := mustHostType(t, tm, "Counter")
	if c := tm.FindClassBySelfType(byValue, false); c == nil || c.Name != "Counter" {
		t.Fatalf("value self type not found: %+v", c)
	}
	byPtr := mustHostType(t, tm, "*Counter")
	if c := tm.FindClassBySelfType(byPtr, true); c == nil || c.Name != "Counter" {
		t.Fatalf("pointer self type not deref-matched: %+v", c)
	}
	if c := tm.FindClassBySelfType(byPtr, false); c != nil {
		t.Fatalf("pointer matched without deref: %+v", c)
	}
}

func TestExportedEnums(t *testing.T) {
	tm := New()
	tm.RegisterExportedEnum(&model.EnumInfo{Name: "Color"})
	ht := mustHostType(t, tm, "Color")
	if _, ok := tm.ExportedEnum(ht); !ok {
		t.Error("registered enum not found")
	}
	if !tm.IsGeneratedForeignType("Color") {
		t.Error("enum not reported as generated foreign type")
	}
	if tm.IsGeneratedForeignType("String") {
		t.Error("builtin reported as generated foreign type")
	}
}

func TestTakeUtilsCode(t *testing.T) {
	tm := New()
	tm.AddUtilsCode("// helper")
	if got := tm.TakeUtilsCode(); len(got) != 1 {
		t.Fatalf("TakeUtilsCode = %v", got)
	}
	if got := tm.TakeUtilsCode(); got != nil {
		t.Errorf("second take must drain: %v", got)
	}
}
