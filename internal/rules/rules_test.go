// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/model"
	"github.com/bridgen/bridgen/internal/typemap"
)

const sampleModule = `
id: sample
types:
  - host: C.jboolean
    foreign: boolean
conversions:
  - from: C.jboolean
    to: bool
    template: "var {to_var} {to_var_type} = ({from_var} != 0)"
  - from: bool
    to: C.jboolean
    template: "var {to_var} {to_var_type} = toJBool({from_var})"
    dependency: "func toJBool(b bool) C.jboolean { return 0 }"
generics:
  - params: [T]
    from: "[]T"
    to: C.jobjectArray
    template: "var {to_var} {to_var_type} = sliceToJava(env, {from_var})"
    requires:
      T: [ForeignClass]
    foreign_hint: "T []"
utils:
  - "// shared helper"
`

func TestParseModule(t *testing.T) {
	id, tm, err := ParseModule("fallback", []byte(sampleModule))
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if id != "sample" {
		t.Errorf("id = %q, want declared id", id)
	}
	if _, ok := tm.FindForeignTypeInfoByName("boolean"); !ok {
		t.Error("foreign type 'boolean' not registered")
	}
	from, ok := tm.HostTypeByName("C.jboolean")
	if !ok {
		t.Fatal("host type C.jboolean not interned")
	}
	to, ok := tm.HostTypeByName("bool")
	if !ok {
		t.Fatal("host type bool not interned")
	}
	_, code, err := tm.ConvertHostTypes(from, to, "b", "gb", "", diag.Pos{})
	if err != nil {
		t.Fatalf("staged conversion unusable: %v", err)
	}
	if !strings.Contains(code, "b != 0") {
		t.Errorf("conversion code = %q", code)
	}
	if got := len(tm.GenericRules()); got != 1 {
		t.Errorf("generic rules staged = %d, want 1", got)
	}
	if got := tm.TakeUtilsCode(); len(got) != 1 {
		t.Errorf("utils staged = %v", got)
	}
}

func TestParseModuleIDFallback(t *testing.T) {
	id, _, err := ParseModule("mymod", []byte("conversions: []"))
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if id != "mymod" {
		t.Errorf("id = %q, want fallback", id)
	}
}

func TestParseModuleRejectsBadTemplate(t *testing.T) {
	bad := `
conversions:
  - from: C.jint
    to: int32
    template: "{to_var} := 0"
`
	if _, _, err := ParseModule("bad", []byte(bad)); err == nil {
		t.Fatal("template without placeholders accepted")
	}
}

func TestParseModuleRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"misspelled template", `
conversions:
  - from: C.jint
    to: int32
    templte: "{to_var} := {to_var_type}({from_var})"
`},
		{"bogus top-level key", `
bogus_top_level_key: true
types:
  - host: C.jint
    foreign: int
`},
		{"misspelled hint", `
generics:
  - params: [T]
    from: "[]T"
    to: C.jobjectArray
    template: "{to_var} := {to_var_type}(sliceToJava(env, {from_var}))"
    foreign_hint_: "T []"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseModule("bad", []byte(tt.body)); err == nil {
				t.Fatal("module with unknown key accepted")
			}
		})
	}
}

func TestParseModuleRejectsBadGeneric(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no params", `
generics:
  - from: "[]T"
    to: C.jobjectArray
    template: "var {to_var} {to_var_type} = f({from_var})"
`},
		{"unknown requires param", `
generics:
  - params: [T]
    from: "[]T"
    to: C.jobjectArray
    template: "var {to_var} {to_var_type} = f({from_var})"
    requires:
      U: [ForeignClass]
`},
		{"bad type expr", `
generics:
  - params: [T]
    from: "[]]T"
    to: C.jobjectArray
    template: "var {to_var} {to_var_type} = f({from_var})"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseModule("bad", []byte(tt.body)); err == nil {
				t.Fatal("invalid generic rule accepted")
			}
		})
	}
}

func TestLoadModuleFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(sampleModule), 0o644); err != nil {
		t.Fatal(err)
	}
	id, tm, err := LoadModule(path)
	if err != nil {
		t.Fatalf("LoadModule: %v", err)
	}
	if id != "sample" {
		t.Errorf("id = %q", id)
	}
	if tm.IsEmpty() {
		t.Error("loaded module staged no types")
	}
}

func TestBuiltinModule(t *testing.T) {
	tm, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	for _, foreign := range []string{"boolean", "int", "long", "double", "String"} {
		if _, ok := tm.FindForeignTypeInfoByName(foreign); !ok {
			t.Errorf("builtin module misses foreign type %q", foreign)
		}
	}
	main := typemap.New()
	if err := main.Merge("builtin", tm); err != nil {
		t.Fatalf("merge builtin: %v", err)
	}
	from, ok := main.HostTypeByName("C.jstring")
	if !ok {
		t.Fatal("C.jstring not registered by builtin module")
	}
	to, ok := main.HostTypeByName("string")
	if !ok {
		t.Fatal("string not registered by builtin module")
	}
	deps, _, err := main.ConvertHostTypes(from, to, "s", "gs", "", diag.Pos{})
	if err != nil {
		t.Fatalf("jstring -> string conversion: %v", err)
	}
	if len(deps) != 1 || !strings.Contains(deps[0], "goStringFromJava") {
		t.Errorf("string helper dependency missing: %v", deps)
	}
}

const sampleDefinition = `
package: ./counter
classes:
  - name: Counter
    self_type: Counter
    constructor_return: "*Counter"
    doc: ["A thread-safe counter."]
    methods:
      - func: NewCounter
        kind: constructor
        args:
          - {name: start, type: int64}
      - func: Counter.Add
        kind: method
        self: pointer
        alias: add
        args:
          - {name: delta, type: int64}
        return: int64
      - func: Counter.Value
        kind: method
        return: int64
      - func: CounterVersion
        kind: static
        access: protected
        return: string
enums:
  - name: Color
    items:
      - {name: Red, const: counter.Red}
      - {name: Green, const: counter.Green}
interfaces:
  - name: CounterObserver
    self_type: Observer
    methods:
      - name: onChange
        func: OnChange
        args:
          - {name: value, type: int64}
`

func TestParseDefinition(t *testing.T) {
	set, err := ParseDefinition("counter.yaml", []byte(sampleDefinition))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if set.Package != "./counter" {
		t.Errorf("package = %q", set.Package)
	}
	if len(set.Classes) != 1 || len(set.Enums) != 1 || len(set.Interfaces) != 1 {
		t.Fatalf("unexpected counts: %d classes, %d enums, %d interfaces",
			len(set.Classes), len(set.Enums), len(set.Interfaces))
	}

	class := set.Classes[0]
	if class.Name != "Counter" || class.SelfType != "Counter" {
		t.Errorf("class = %+v", class)
	}
	if len(class.Methods) != 4 {
		t.Fatalf("methods = %d, want 4", len(class.Methods))
	}
	ctor := class.Methods[0]
	if ctor.Variant != model.VariantConstructor || ctor.HostFunc != "NewCounter" {
		t.Errorf("constructor = %+v", ctor)
	}
	add := class.Methods[1]
	if add.Variant != model.VariantMethod || add.Self != model.SelfPtr {
		t.Errorf("add = %+v", add)
	}
	if add.ShortName() != "add" {
		t.Errorf("ShortName = %q, want alias", add.ShortName())
	}
	value := class.Methods[2]
	if value.Self != model.SelfValue || value.Access != model.AccessPublic {
		t.Errorf("value = %+v", value)
	}
	if value.ShortName() != "Value" {
		t.Errorf("ShortName = %q, want host path tail", value.ShortName())
	}
	static := class.Methods[3]
	if static.Variant != model.VariantStatic || static.Access != model.AccessProtected {
		t.Errorf("static = %+v", static)
	}

	if set.Enums[0].Items[1].HostConst != "counter.Green" {
		t.Errorf("enum items = %+v", set.Enums[0].Items)
	}
	iface := set.Interfaces[0]
	if iface.SelfType != "Observer" || len(iface.Methods) != 1 {
		t.Errorf("interface = %+v", iface)
	}
}

func TestParseDefinitionRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no package", `classes: []`},
		{"method without self type", `
package: ./x
classes:
  - name: Broken
    methods:
      - func: Broken.Do
        kind: method
`},
		{"unknown method kind", `
package: ./x
classes:
  - name: C
    self_type: C
    methods:
      - func: C.Do
        kind: async
`},
		{"enum without items", `
package: ./x
enums:
  - name: Empty
`},
		{"interface without self type", `
package: ./x
interfaces:
  - name: Obs
    methods:
      - name: onChange
`},
		{"unknown key", `
package: ./x
classes:
  - name: C
    self_typ: C
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDefinition("bad.yaml", []byte(tt.body)); err == nil {
				t.Fatal("invalid definition accepted")
			}
		})
	}
}
