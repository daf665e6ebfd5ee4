// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"fmt"
	"go/ast"
	"strings"
)

// ConvEdge is one conversion rule between two host types. The template is
// rendered with the {from_var}/{to_var}/{to_var_type}/{function_ret_type}
// placeholders; Dependency is an optional glue snippet (helper function,
// import) emitted once the first time the edge is used.
type ConvEdge struct {
	Template   string
	Dependency string
}

// takeDependency returns the pending dependency snippet and clears it so it
// is only emitted once.
func (e *ConvEdge) takeDependency() string {
	dep := e.Dependency
	e.Dependency = ""
	return dep
}

type edgeRef struct {
	to   int
	edge *ConvEdge
}

// convGraph is the directed conversion graph. Nodes and adjacency lists are
// append-only during normal operation; speculative additions made while
// synthesizing a path are removed tail-first by graphSnapshot.
type convGraph struct {
	nodes []*HostType
	out   [][]edgeRef
}

func newConvGraph() *convGraph {
	return &convGraph{}
}

func (g *convGraph) nodeCount() int { return len(g.nodes) }

func (g *convGraph) edgeCount() int {
	n := 0
	for _, refs := range g.out {
		n += len(refs)
	}
	return n
}

func (g *convGraph) addNode(t *HostType) int {
	idx := len(g.nodes)
	t.idx = idx
	g.nodes = append(g.nodes, t)
	g.out = append(g.out, nil)
	return idx
}

// findEdge returns the edge from -> to, or nil.
func (g *convGraph) findEdge(from, to int) *ConvEdge {
	for _, ref := range g.out[from] {
		if ref.to == to {
			return ref.edge
		}
	}
	return nil
}

// addEdge appends a new edge; callers check findEdge first when duplicates
// must be rejected or replaced.
func (g *convGraph) addEdge(from, to int, e *ConvEdge) {
	g.out[from] = append(g.out[from], edgeRef{to: to, edge: e})
}

// updateEdge replaces an existing from -> to edge or adds a new one.
func (g *convGraph) updateEdge(from, to int, e *ConvEdge) {
	for i, ref := range g.out[from] {
		if ref.to == to {
			g.out[from][i].edge = e
			return
		}
	}
	g.addEdge(from, to, e)
}

// removeEdge deletes the from -> to edge if present.
func (g *convGraph) removeEdge(from, to int) {
	refs := g.out[from]
	for i, ref := range refs {
		if ref.to == to {
			g.out[from] = append(refs[:i], refs[i+1:]...)
			return
		}
	}
}

// removeLastNode pops the most recently added node. Snapshot rollback
// removes its additions in reverse order, so the node to drop is always at
// the tail and index stability for older nodes is preserved.
func (g *convGraph) removeLastNode(idx int) {
	if idx != len(g.nodes)-1 {
		panic(fmt.Sprintf("internal error: rollback of non-tail node %d (len %d)", idx, len(g.nodes)))
	}
	g.nodes = g.nodes[:idx]
	g.out = g.out[:idx]
}

// String renders the adjacency for debug logging.
func (g *convGraph) String() string {
	var b strings.Builder
	b.WriteString("conversion graph begin\n")
	for i, t := range g.nodes {
		fmt.Fprintf(&b, "node %s: ", t.Name)
		for _, ref := range g.out[i] {
			fmt.Fprintf(&b, "->%s, ", g.nodes[ref.to].Name)
		}
		b.WriteByte('\n')
	}
	b.WriteString("conversion graph end")
	return b.String()
}

// graphSnapshot tracks nodes and edges added while probing generic rules so
// they can be rolled back when no usable path comes out of the probe.
type graphSnapshot struct {
	g            *convGraph
	hostNames    map[string]int
	newNodeNames map[string]int
	newNodes     []int
	newEdges     [][2]int
}

func newGraphSnapshot(g *convGraph, hostNames map[string]int) *graphSnapshot {
	return &graphSnapshot{
		g:            g,
		hostNames:    hostNames,
		newNodeNames: make(map[string]int),
	}
}

// nodeForType resolves a committed or speculative node by name, adding a
// speculative node when unknown.
func (s *graphSnapshot) nodeForType(expr ast.Expr, name string) int {
	if idx, ok := s.hostNames[name]; ok {
		return idx
	}
	if idx, ok := s.newNodeNames[name]; ok {
		return idx
	}
	idx := s.g.addNode(newHostType(expr, name))
	s.newNodeNames[name] = idx
	s.newNodes = append(s.newNodes, idx)
	return idx
}

func (s *graphSnapshot) findTypeByName(name string) *HostType {
	if idx, ok := s.hostNames[name]; ok {
		return s.g.nodes[idx]
	}
	if idx, ok := s.newNodeNames[name]; ok {
		return s.g.nodes[idx]
	}
	return nil
}

func (s *graphSnapshot) addEdge(from, to int, e *ConvEdge) {
	if s.g.findEdge(from, to) == nil {
		s.g.addEdge(from, to, e)
		s.newEdges = append(s.newEdges, [2]int{from, to})
	}
}

// isNewEdge reports whether the edge was added by this snapshot.
func (s *graphSnapshot) isNewEdge(from, to int) bool {
	for _, e := range s.newEdges {
		if e[0] == from && e[1] == to {
			return true
		}
	}
	return false
}

// rollback removes speculative edges and nodes in reverse insertion order.
func (s *graphSnapshot) rollback() {
	for i := len(s.newEdges) - 1; i >= 0; i-- {
		s.g.removeEdge(s.newEdges[i][0], s.newEdges[i][1])
	}
	for i := len(s.newNodes) - 1; i >= 0; i-- {
		s.g.removeLastNode(s.newNodes[i])
	}
	s.newEdges = nil
	s.newNodes = nil
	s.newNodeNames = make(map[string]int)
}
