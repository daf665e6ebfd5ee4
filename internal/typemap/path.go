// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package typemap

import (
	"github.com/bridgen/bridgen/internal/diag"
	"github.com/bridgen/bridgen/internal/logging"
)

// pathStep is one traversed edge of a conversion path.
type pathStep struct {
	from, to int
	edge     *ConvEdge
}

// findConversionPath returns the shortest edge sequence from -> to. All
// edges cost the same, so breadth-first search is sufficient; adjacency
// lists are visited in insertion order, which keeps tie-breaking stable.
func findConversionPath(g *convGraph, from, to int, pos diag.Pos) ([]pathStep, error) {
	if from == to {
		return nil, nil
	}
	prev := make(map[int]pathStep, g.nodeCount())
	visited := make([]bool, g.nodeCount())
	visited[from] = true
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range g.out[cur] {
			if visited[ref.to] {
				continue
			}
			visited[ref.to] = true
			prev[ref.to] = pathStep{from: cur, to: ref.to, edge: ref.edge}
			if ref.to == to {
				return unwindPath(prev, from, to), nil
			}
			queue = append(queue, ref.to)
		}
	}
	err := diag.New(pos, "cannot find conversion from type '%s'", g.nodes[from])
	err.Note(pos, "to type '%s'", g.nodes[to])
	return nil, err
}

func unwindPath(prev map[int]pathStep, from, to int) []pathStep {
	var rev []pathStep
	for cur := to; cur != from; {
		step := prev[cur]
		rev = append(rev, step)
		cur = step.from
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// hasPathConnecting reports reachability without materializing the path.
func hasPathConnecting(g *convGraph, from, to int) bool {
	if from == to {
		return true
	}
	visited := make([]bool, g.nodeCount())
	visited[from] = true
	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range g.out[cur] {
			if ref.to == to {
				return true
			}
			if !visited[ref.to] {
				visited[ref.to] = true
				queue = append(queue, ref.to)
			}
		}
	}
	return false
}

// newEdgeRec captures a speculative edge (with detached endpoint copies) so
// it survives the snapshot rollback and can be committed afterwards.
type newEdgeRec struct {
	from *HostType
	to   *HostType
	edge *ConvEdge
}

// possiblePath is a candidate conversion path discovered during synthesis:
// its length ranks candidates, its new edges are what merging commits.
type possiblePath struct {
	pathLen  int
	newEdges []newEdgeRec
}

func newPossiblePath(snap *graphSnapshot, path []pathStep) *possiblePath {
	pp := &possiblePath{pathLen: len(path)}
	for _, step := range path {
		if snap.isNewEdge(step.from, step.to) {
			pp.newEdges = append(pp.newEdges, newEdgeRec{
				from: snap.g.nodes[step.from].clone(),
				to:   snap.g.nodes[step.to].clone(),
				edge: &ConvEdge{Template: step.edge.Template, Dependency: step.edge.Dependency},
			})
		}
	}
	return pp
}

// tryBuildPath searches for a conversion path from startFrom to goalTo,
// allowing generic rules to stamp out speculative nodes and edges. The
// frontier advances one conversion step per round, bounded by maxSteps;
// everything speculative is rolled back before returning, with the found
// path captured in the returned possiblePath.
func tryBuildPath(startFrom, goalTo *HostType, g *convGraph, hostNames map[string]int, genericRules []*GenericRule, maxSteps int) *possiblePath {
	logging.Debugf("tryBuildPath: %s -> %s (nodes %d, edges %d)",
		startFrom, goalTo, g.nodeCount(), g.edgeCount())
	snap := newGraphSnapshot(g, hostNames)
	defer snap.rollback()

	curStep := map[int]struct{}{startFrom.idx: {}}
	nextStep := make(map[int]struct{})

	for step := 0; step < maxSteps; step++ {
		if len(curStep) == 0 {
			break
		}
		for fromIdx := range curStep {
			from := g.nodes[fromIdx]
			for _, ref := range g.out[fromIdx] {
				nextStep[ref.to] = struct{}{}
			}
			for _, rule := range genericRules {
				toExpr, toName, ok := rule.isConvPossible(from, snap.findTypeByName)
				if !ok || from.Name == toName {
					continue
				}
				// A suffixed goal node is a foreign view of the rule's
				// target type; stamp the edge onto the view itself so
				// the proposal's node is reachable, not just the plain
				// node the rule names.
				var to int
				if goalTo.Name != toName && UnpackUniqueTypename(goalTo.Name) == toName {
					to = goalTo.idx
				} else {
					to = snap.nodeForType(toExpr, toName)
				}
				snap.addEdge(fromIdx, to, &ConvEdge{
					Template:   rule.Template,
					Dependency: rule.Dependency,
				})
				if hasPathConnecting(g, to, goalTo.idx) {
					path, err := findConversionPath(g, startFrom.idx, goalTo.idx, diag.Pos{})
					if err != nil {
						panic("internal error: connected path must be findable")
					}
					return newPossiblePath(snap, path)
				}
				nextStep[to] = struct{}{}
			}
		}
		curStep, nextStep = nextStep, curStep
		for k := range nextStep {
			delete(nextStep, k)
		}
	}
	logging.Debugf("tryBuildPath: no result for %s -> %s", startFrom, goalTo)
	return nil
}
