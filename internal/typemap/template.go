// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"strings"

	"github.com/bridgen/bridgen/internal/diag"
)

// Placeholders recognized in conversion code templates.
const (
	ToVarTemplate     = "{to_var}"
	FromVarTemplate   = "{from_var}"
	ToVarTypeTemplate = "{to_var_type}"
	FnRetTypeTemplate = "{function_ret_type}"
	uniqueNameSep     = "\x00"
	maxBuildPathSteps = 7

	// CapabilityForeignClass tags host types that back an exported class;
	// generic rules over class types require it.
	CapabilityForeignClass = "ForeignClass"
)

// ValidateCodeTemplate checks that a conversion template references the
// variables the renderer substitutes; a template missing them would emit
// glue that silently drops the converted value.
func ValidateCodeTemplate(pos diag.Pos, code string) error {
	if strings.Contains(code, ToVarTemplate) &&
		strings.Contains(code, FromVarTemplate) &&
		strings.Contains(code, ToVarTypeTemplate) {
		return nil
	}
	return diag.New(pos, "%q does not contain one of %s, %s, %s",
		code, ToVarTemplate, FromVarTemplate, ToVarTypeTemplate)
}

// MakeUniqueTypename appends a suffix to a type name using a separator that
// cannot occur in Go source, so distinct foreign views of the same Go type
// get distinct graph nodes.
func MakeUniqueTypename(name, suffix string) string {
	return name + uniqueNameSep + suffix
}

// UnpackUniqueTypename strips a uniqueness suffix for display.
func UnpackUniqueTypename(name string) string {
	if i := strings.Index(name, uniqueNameSep); i >= 0 {
		return name[:i]
	}
	return name
}

// applyCodeTemplate renders one conversion step. Each step is indented one
// level and newline-terminated so steps concatenate into a block.
func applyCodeTemplate(template, toName, fromName, toTypename, fnRetType string) string {
	code := "\t" + template + "\n"
	code = strings.ReplaceAll(code, ToVarTemplate, toName)
	code = strings.ReplaceAll(code, FromVarTemplate, fromName)
	code = strings.ReplaceAll(code, ToVarTypeTemplate, toTypename)
	return strings.ReplaceAll(code, FnRetTypeTemplate, fnRetType)
}
