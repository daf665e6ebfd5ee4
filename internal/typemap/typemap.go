// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// package typemap implements the conversion engine at the heart of the
// generator. Host (Go) types are nodes of a directed graph; edges carry
// code templates that convert a value of the source type into the target
// type. Mapping a signature is a shortest-path search over that graph, and
// generic rules can synthesize missing nodes and edges on demand.
package typemap

import (
	"fmt"
	"go/ast"

	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/logging"
	"github.com/bridgen/bridgen/internal/model"
)

// TypeMap owns the conversion graph plus the foreign-name directory and
// everything registered by rule modules and class definitions.
type TypeMap struct {
	graph        *convGraph
	hostNames    map[string]int // normalized host type name -> node
	foreignNames map[string]int // foreign type name -> node
	utilsCode    []string
	genericRules []*GenericRule
	// hostToForeign short-circuits outgoing lookups for types a backend
	// has already pinned, e.g. a class self type to its class name.
	hostToForeign map[string]string
	classes       []*model.ClassInfo
	enums         map[string]*model.EnumInfo
}

// New returns a TypeMap seeded with the pointer generic rules every
// backend relies on: taking the address of a value and dereferencing a
// pointer.
func New() *TypeMap {
	tm := NewEmpty()
	tm.genericRules = defaultGenericRules()
	return tm
}

// NewEmpty returns a TypeMap without the builtin generic rules. Rule
// modules are staged into an empty map so merging them does not duplicate
// the builtins.
func NewEmpty() *TypeMap {
	return &TypeMap{
		graph:         newConvGraph(),
		hostNames:     make(map[string]int),
		foreignNames:  make(map[string]int),
		hostToForeign: make(map[string]string),
		enums:         make(map[string]*model.EnumInfo),
	}
}

func defaultGenericRules() []*GenericRule {
	mustExpr := func(src string) ast.Expr {
		e, err := ParseTypeExpr(src)
		if err != nil {
			panic(err)
		}
		return e
	}
	return []*GenericRule{
		{
			Params:   []string{"T"},
			From:     mustExpr("T"),
			To:       mustExpr("*T"),
			Template: "{to_var} := &{from_var}",
		},
		{
			Params:   []string{"T"},
			From:     mustExpr("*T"),
			To:       mustExpr("T"),
			Template: "{to_var} := *{from_var}",
		},
	}
}

// IsEmpty reports whether no host types are registered yet.
func (tm *TypeMap) IsEmpty() bool { return tm.graph.nodeCount() == 0 }

// NodeCount returns the number of registered host types.
func (tm *TypeMap) NodeCount() int { return tm.graph.nodeCount() }

// EdgeCount returns the number of registered conversions.
func (tm *TypeMap) EdgeCount() int { return tm.graph.edgeCount() }

// TakeUtilsCode drains the helper snippets contributed by rule modules.
func (tm *TypeMap) TakeUtilsCode() []string {
	code := tm.utilsCode
	tm.utilsCode = nil
	return code
}

// AddUtilsCode appends a helper snippet for the glue file.
func (tm *TypeMap) AddUtilsCode(code string) {
	tm.utilsCode = append(tm.utilsCode, code)
}

// AddGenericRule registers a parameterized conversion rule.
func (tm *TypeMap) AddGenericRule(rule *GenericRule) {
	tm.genericRules = append(tm.genericRules, rule)
}

// GenericRules exposes the registered rules; used by Merge and the graph
// inspector.
func (tm *TypeMap) GenericRules() []*GenericRule { return tm.genericRules }

// AddForeign binds a foreign type name to the host type the glue uses for
// it.
func (tm *TypeMap) AddForeign(host *HostType, foreignName string) {
	tm.foreignNames[foreignName] = host.idx
}

// FindForeignTypeInfoByName resolves a registered foreign type name.
func (tm *TypeMap) FindForeignTypeInfoByName(foreignName string) (ForeignTypeInfo, bool) {
	idx, ok := tm.foreignNames[foreignName]
	if !ok {
		return ForeignTypeInfo{}, false
	}
	return ForeignTypeInfo{Name: foreignName, HostType: tm.graph.nodes[idx]}, true
}

// ForeignNames lists registered foreign type names in graph order.
func (tm *TypeMap) ForeignNames() map[string]string {
	out := make(map[string]string, len(tm.foreignNames))
	for name, idx := range tm.foreignNames {
		out[name] = tm.graph.nodes[idx].String()
	}
	return out
}

// CacheHostToForeignConv pins the outgoing resolution of a host type so
// later lookups skip the path search. The foreign target is registered as
// a foreign name as well.
func (tm *TypeMap) CacheHostToForeignConv(from *HostType, to ForeignTypeInfo) {
	tm.hostToForeign[from.Name] = to.Name
	tm.foreignNames[to.Name] = to.HostType.idx
}

// CachedHostToForeign exposes the pinned resolutions for persistence.
func (tm *TypeMap) CachedHostToForeign() map[string]string {
	out := make(map[string]string, len(tm.hostToForeign))
	for k, v := range tm.hostToForeign {
		out[k] = v
	}
	return out
}

// SeedHostToForeign restores a pinned resolution loaded from the registry.
// Unknown names are ignored: a stale cache row must never invent nodes.
func (tm *TypeMap) SeedHostToForeign(hostName, foreignName string) bool {
	if _, ok := tm.hostNames[hostName]; !ok {
		return false
	}
	if _, ok := tm.foreignNames[foreignName]; !ok {
		return false
	}
	tm.hostToForeign[hostName] = foreignName
	return true
}

// RegisterClass records an exported class so foreign-name proposals can
// find the class a host type belongs to.
func (tm *TypeMap) RegisterClass(class *model.ClassInfo) {
	tm.classes = append(tm.classes, class)
}

// Classes returns the registered classes.
func (tm *TypeMap) Classes() []*model.ClassInfo { return tm.classes }

// RegisterExportedEnum records an exported enum.
func (tm *TypeMap) RegisterExportedEnum(enum *model.EnumInfo) {
	tm.enums[enum.Name] = enum
}

// ExportedEnum returns the enum registered under the host type's name.
func (tm *TypeMap) ExportedEnum(t *HostType) (*model.EnumInfo, bool) {
	e, ok := tm.enums[t.Name]
	return e, ok
}

// IsGeneratedForeignType reports whether a foreign name is produced by this
// run (a registered class or enum) rather than a builtin.
func (tm *TypeMap) IsGeneratedForeignType(foreignName string) bool {
	if _, ok := tm.enums[foreignName]; ok {
		return true
	}
	for _, c := range tm.classes {
		if c.Name == foreignName {
			return true
		}
	}
	return false
}

// addNode interns a host type by unique name.
func (tm *TypeMap) addNode(name string, build func() *HostType) int {
	if idx, ok := tm.hostNames[name]; ok {
		return idx
	}
	idx := tm.graph.addNode(build())
	tm.hostNames[name] = idx
	return idx
}

// FindOrAllocHostType interns the host type spelled by src.
func (tm *TypeMap) FindOrAllocHostType(src string) (*HostType, error) {
	expr, err := ParseTypeExpr(src)
	if err != nil {
		return nil, err
	}
	return tm.FindOrAllocHostTypeExpr(expr), nil
}

// FindOrAllocHostTypeExpr interns a parsed host type expression.
func (tm *TypeMap) FindOrAllocHostTypeExpr(expr ast.Expr) *HostType {
	name := TypeName(expr)
	idx := tm.addNode(name, func() *HostType { return newHostType(expr, name) })
	return tm.graph.nodes[idx]
}

// FindOrAllocHostTypeThatImplements interns a host type and tags it with a
// capability used by rule requirements.
func (tm *TypeMap) FindOrAllocHostTypeThatImplements(src, capability string) (*HostType, error) {
	t, err := tm.FindOrAllocHostType(src)
	if err != nil {
		return nil, err
	}
	t.addCapability(capability)
	return t, nil
}

// FindOrAllocHostTypeWithSuffix interns a distinct foreign view of a host
// type: same expression, unique suffixed name.
func (tm *TypeMap) FindOrAllocHostTypeWithSuffix(src, suffix string) (*HostType, error) {
	expr, err := ParseTypeExpr(src)
	if err != nil {
		return nil, err
	}
	return tm.findOrAllocWithSuffixExpr(expr, suffix), nil
}

func (tm *TypeMap) findOrAllocWithSuffixExpr(expr ast.Expr, suffix string) *HostType {
	name := MakeUniqueTypename(TypeName(expr), suffix)
	idx := tm.addNode(name, func() *HostType { return newHostType(expr, name) })
	return tm.graph.nodes[idx]
}

// HostTypeByName resolves an interned host type by normalized name.
func (tm *TypeMap) HostTypeByName(name string) (*HostType, bool) {
	idx, ok := tm.hostNames[name]
	if !ok {
		return nil, false
	}
	return tm.graph.nodes[idx], true
}

// HostTypes lists the interned host types in registration order.
func (tm *TypeMap) HostTypes() []*HostType {
	out := make([]*HostType, len(tm.graph.nodes))
	copy(out, tm.graph.nodes)
	return out
}

// OutgoingEdges lists the conversions leaving a host type as
// (target, template) pairs in insertion order.
func (tm *TypeMap) OutgoingEdges(t *HostType) [][2]string {
	var out [][2]string
	for _, ref := range tm.graph.out[t.idx] {
		out = append(out, [2]string{tm.graph.nodes[ref.to].String(), ref.edge.Template})
	}
	return out
}

// AddConversionRule installs (or replaces) the edge from -> to.
func (tm *TypeMap) AddConversionRule(from, to *HostType, edge *ConvEdge) {
	logging.Debugf("typemap: add conversion rule %s -> %s", from, to)
	tm.graph.updateEdge(from.idx, to.idx, edge)
}

// IsTyImplements resolves whether a host type (or its pointee) carries the
// capability, returning the carrying type.
func (tm *TypeMap) IsTyImplements(t *HostType, capability string) (*HostType, bool) {
	if t.Implements(capability) {
		return t, true
	}
	if star, ok := t.Expr.(*ast.StarExpr); ok {
		if inner, found := tm.HostTypeByName(TypeName(star.X)); found && inner.Implements(capability) {
			return inner, true
		}
	}
	return nil, false
}

// FindClassBySelfType returns the registered class whose self type matches
// the given host type. With derefPointer set, a pointer type matches the
// class of its pointee, mirroring how instance methods receive handles.
func (tm *TypeMap) FindClassBySelfType(t *HostType, derefPointer bool) *model.ClassInfo {
	typeName := t.Name
	if star, ok := t.Expr.(*ast.StarExpr); ok && derefPointer {
		typeName = TypeName(star.X)
	}
	for _, class := range tm.classes {
		selfName, err := NormalizeTypeName(class.SelfTypeOrUnit())
		if err != nil {
			continue
		}
		if selfName == typeName {
			return class
		}
	}
	return nil
}

// ConvertHostTypes renders the conversion block from one host type to
// another. When no path exists yet, path synthesis through the generic
// rules is attempted once before failing. Each step of a multi-step path
// introduces a fresh intermediate variable, since Go has no shadowing to
// reuse the same name. It returns the glue dependencies drained from the
// traversed edges and the rendered code.
func (tm *TypeMap) ConvertHostTypes(from, to *HostType, inVar, outVar, fnRetType string, pos diag.Pos) ([]string, string, error) {
	path, err := tm.findPath(from, to, pos)
	if err != nil {
		logging.Debugf("ConvertHostTypes: no direct path %s -> %s, trying to build one", from, to)
		tm.buildPathIfPossible(from, to)
		path, err = tm.findPath(from, to, pos)
		if err != nil {
			return nil, "", err
		}
	}
	if len(path) == 0 {
		if inVar == outVar {
			return nil, "", nil
		}
		return nil, fmt.Sprintf("\t%s := %s\n", outVar, inVar), nil
	}
	var deps []string
	var code string
	cur := inVar
	for i, step := range path {
		next := outVar
		if i < len(path)-1 {
			next = fmt.Sprintf("%s_%d", outVar, i)
		}
		targetType := tm.graph.nodes[step.to].Name
		if dep := step.edge.takeDependency(); dep != "" {
			deps = append(deps, dep)
		}
		code += applyCodeTemplate(step.edge.Template, next, cur,
			UnpackUniqueTypename(targetType), fnRetType)
		cur = next
	}
	return deps, code, nil
}

func (tm *TypeMap) findPath(from, to *HostType, pos diag.Pos) ([]pathStep, error) {
	if from.Name == to.Name {
		return nil, nil
	}
	return findConversionPath(tm.graph, from.idx, to.idx, pos)
}

func (tm *TypeMap) buildPathIfPossible(from, to *HostType) {
	if pp := tryBuildPath(from, to, tm.graph, tm.hostNames, tm.genericRules, maxBuildPathSteps); pp != nil {
		tm.mergePath(pp)
	}
}

// mergePath commits the speculative edges of an adopted candidate path.
func (tm *TypeMap) mergePath(pp *possiblePath) {
	for _, rec := range pp.newEdges {
		fromIdx := tm.addNode(rec.from.Name, func() *HostType { return rec.from })
		toIdx := tm.addNode(rec.to.Name, func() *HostType { return rec.to })
		if tm.graph.findEdge(fromIdx, toIdx) != nil {
			continue
		}
		tm.graph.addEdge(fromIdx, toIdx, rec.edge)
	}
}

// Merge unions another TypeMap (typically one staged from a parsed rule
// module) into this one. Nodes are matched by name and their capability
// sets merged; on conflicting edges the existing conversion wins.
func (tm *TypeMap) Merge(id string, other *TypeMap) error {
	logging.Debugf("typemap: merging %s", id)
	for otherIdx, node := range other.graph.nodes {
		selfSrc := tm.adoptNode(node)
		if foreignName, ok := other.foreignNameFor(otherIdx); ok {
			tm.foreignNames[foreignName] = selfSrc
		}
		for _, ref := range other.graph.out[otherIdx] {
			selfTarget := tm.adoptNode(other.graph.nodes[ref.to])
			if existing := tm.graph.findEdge(selfSrc, selfTarget); existing != nil {
				logging.Warnf("typemap merge %s: conversion %s -> %s ignored, keeping existing rule",
					id, node, other.graph.nodes[ref.to])
				continue
			}
			tm.graph.addEdge(selfSrc, selfTarget, &ConvEdge{
				Template:   ref.edge.Template,
				Dependency: ref.edge.Dependency,
			})
		}
	}
	tm.utilsCode = append(tm.utilsCode, other.utilsCode...)
	tm.genericRules = append(tm.genericRules, other.genericRules...)
	return nil
}

func (tm *TypeMap) adoptNode(node *HostType) int {
	idx := tm.addNode(node.Name, node.clone)
	tm.graph.nodes[idx].mergeFrom(node)
	return idx
}

func (tm *TypeMap) foreignNameFor(idx int) (string, bool) {
	for name, nodeIdx := range tm.foreignNames {
		if nodeIdx == idx {
			return name, true
		}
	}
	return "", false
}

// CalcThisType resolves the host type a class's methods dispatch on; used
// by foreign-name proposals during mapping.
type CalcThisType func(tm *TypeMap, class *model.ClassInfo) (string, bool)

// MapThroughConversionToForeign finds the foreign type a host type maps
// to (Outgoing) or from (Incoming). Resolution order: pinned cache, then
// minimal path to any registered foreign node, then foreign-name proposals
// from hinted generic rules, then bounded path synthesis against every
// foreign node preferring the shortest result.
func (tm *TypeMap) MapThroughConversionToForeign(hostTy *HostType, direction Direction, calcThisType CalcThisType) (ForeignTypeInfo, bool) {
	logging.Debugf("map foreign: %s %s", hostTy, direction)

	if direction == Outgoing {
		if foreignName, ok := tm.hostToForeign[hostTy.Name]; ok {
			if idx, found := tm.foreignNames[foreignName]; found {
				return ForeignTypeInfo{Name: foreignName, HostType: tm.graph.nodes[idx]}, true
			}
		}
	}

	if fi, ok := tm.minPathToForeign(hostTy, direction); ok {
		return fi, true
	}

	logging.Debugf("map foreign: no path exists for '%s' %s, proposing new foreign types", hostTy, direction)
	tm.proposeForeignTypesFromHints(calcThisType)

	var best *possiblePath
	var bestName string
	var bestIdx int
	for maxSteps := 1; maxSteps <= maxBuildPathSteps; maxSteps++ {
		for foreignName, idx := range tm.foreignNames {
			other := tm.graph.nodes[idx]
			var pp *possiblePath
			if direction == Outgoing {
				pp = tryBuildPath(hostTy, other, tm.graph, tm.hostNames, tm.genericRules, maxSteps)
			} else {
				pp = tryBuildPath(other, hostTy, tm.graph, tm.hostNames, tm.genericRules, maxSteps)
			}
			if pp == nil {
				continue
			}
			if best == nil || pp.pathLen < best.pathLen ||
				(pp.pathLen == best.pathLen &&
					preferForeignCandidate(other, foreignName, tm.graph.nodes[bestIdx], bestName)) {
				best, bestName, bestIdx = pp, foreignName, idx
			}
		}
		if best != nil {
			break
		}
	}
	if best == nil {
		logging.Debugf("map foreign failed for %s; graph: %s", hostTy, tm.graph)
		return ForeignTypeInfo{}, false
	}
	tm.mergePath(best)
	return ForeignTypeInfo{Name: bestName, HostType: tm.graph.nodes[bestIdx]}, true
}

// preferForeignCandidate breaks path-length ties between synthesized
// candidates: a suffixed node is a hint-proposed view of a concrete class
// and wins over a generic foreign type; names settle the rest.
func preferForeignCandidate(node *HostType, name string, curNode *HostType, curName string) bool {
	suffixed := node.Name != UnpackUniqueTypename(node.Name)
	curSuffixed := curNode.Name != UnpackUniqueTypename(curNode.Name)
	if suffixed != curSuffixed {
		return suffixed
	}
	return name < curName
}

// minPathToForeign scans all registered foreign nodes for the shortest
// existing path to or from the host type.
func (tm *TypeMap) minPathToForeign(hostTy *HostType, direction Direction) (ForeignTypeInfo, bool) {
	bestLen := -1
	var bestName string
	var bestIdx int
	for foreignName, idx := range tm.foreignNames {
		var path []pathStep
		var err error
		if direction == Outgoing {
			path, err = findConversionPath(tm.graph, hostTy.idx, idx, diag.Pos{})
		} else {
			path, err = findConversionPath(tm.graph, idx, hostTy.idx, diag.Pos{})
		}
		if err != nil {
			continue
		}
		if bestLen < 0 || len(path) < bestLen ||
			(len(path) == bestLen && foreignName < bestName) {
			bestLen, bestName, bestIdx = len(path), foreignName, idx
		}
	}
	if bestLen < 0 {
		return ForeignTypeInfo{}, false
	}
	return ForeignTypeInfo{Name: bestName, HostType: tm.graph.nodes[bestIdx]}, true
}

// proposeForeignTypesFromHints registers foreign views for hinted generic
// rules whose capability requirements are satisfied by a known class type,
// e.g. "[]T -> C.jobjectArray, hint 'T []'" proposing "Counter []".
func (tm *TypeMap) proposeForeignTypesFromHints(calcThisType CalcThisType) {
	type proposal struct {
		toExpr      ast.Expr
		suffix      string
		foreignName string
	}
	seen := make(map[string]struct{})
	var proposals []proposal
	for _, rule := range tm.genericRules {
		if rule.ForeignHint == "" {
			continue
		}
		for param, caps := range rule.Requires {
			if len(caps) == 0 {
				continue
			}
			for _, node := range tm.HostTypes() {
				if !node.ImplementsAll(caps) {
					continue
				}
				class := tm.findClassWithThisType(node.Name, calcThisType)
				if class == nil {
					logging.Warnf("no foreign class for type '%s'", node)
					continue
				}
				suffix := replaceParam(rule.ForeignHint, param, node.Name)
				foreignName := replaceParam(rule.ForeignHint, param, class.Name)
				if _, dup := seen[foreignName]; dup {
					continue
				}
				seen[foreignName] = struct{}{}
				proposals = append(proposals, proposal{
					toExpr:      rule.To,
					suffix:      suffix,
					foreignName: foreignName,
				})
			}
		}
	}
	for _, p := range proposals {
		logging.Debugf("map foreign: add possible type %s <-> %s", TypeName(p.toExpr), p.foreignName)
		host := tm.findOrAllocWithSuffixExpr(p.toExpr, p.suffix)
		tm.foreignNames[p.foreignName] = host.idx
	}
}

// findClassWithThisType returns the class whose computed this-type matches
// the given normalized name.
func (tm *TypeMap) findClassWithThisType(name string, calcThisType CalcThisType) *model.ClassInfo {
	if calcThisType == nil {
		return nil
	}
	for _, class := range tm.classes {
		thisTy, ok := calcThisType(tm, class)
		if !ok {
			continue
		}
		normalized, err := NormalizeTypeName(thisTy)
		if err != nil {
			continue
		}
		if normalized == name {
			return class
		}
	}
	return nil
}

// replaceParam substitutes a bare parameter name inside a foreign hint.
func replaceParam(hint, param, with string) string {
	out := make([]byte, 0, len(hint)+len(with))
	for i := 0; i < len(hint); {
		if hint[i:min(i+len(param), len(hint))] == param &&
			(i == 0 || !isWordByte(hint[i-1])) &&
			(i+len(param) >= len(hint) || !isWordByte(hint[i+len(param)])) {
			out = append(out, with...)
			i += len(param)
			continue
		}
		out = append(out, hint[i])
		i++
	}
	return string(out)
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// DumpGraph renders the conversion graph for the graph command.
func (tm *TypeMap) DumpGraph() string {
	return tm.graph.String()
}
