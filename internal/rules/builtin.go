// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package rules

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/bridgen/bridgen/internal/typemap"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin stages the compiled-in rule modules into a fresh TypeMap. The
// caller seeds its main TypeMap by merging the result before any
// user-supplied modules.
func Builtin() (*typemap.TypeMap, error) {
	entries, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	tm := typemap.NewEmpty()
	for _, name := range entries {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		id, staged, err := ParseModule(path.Base(name), data)
		if err != nil {
			return nil, fmt.Errorf("builtin rule module %s: %w", name, err)
		}
		if err := tm.Merge(id, staged); err != nil {
			return nil, err
		}
	}
	return tm, nil
}
