// Package dependencygraph implements the Dependency Graph (§4.3): a typed DAG keyed
// by operation id with topological sort in either direction, grounded on the
// in-degree-queue shape of the teacher's
// incremental.IncrementalDependencyGraph.GetTopologicalOrder, generalized to support
// both directions and to detect cycles rather than assume acyclicity.
package dependencygraph

import (
	"fmt"
	"sort"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
)

// Graph is a mapping from operation id to its dependency node (§3, §4.3).
type Graph struct {
	nodes map[entities.OperationID]*entities.DependencyNode
	// order records insertion order of operation ids so iteration (and therefore
	// topological sort among equally-ready nodes) is deterministic.
	order []entities.OperationID
}

// New builds an empty graph with a node pre-created for every given operation id, so
// operations with no dependencies still appear in the sort.
func New(operationIDs []entities.OperationID) *Graph {
	g := &Graph{nodes: make(map[entities.OperationID]*entities.DependencyNode, len(operationIDs))}
	for _, id := range operationIDs {
		g.ensureNode(id)
	}
	return g
}

func (g *Graph) ensureNode(id entities.OperationID) *entities.DependencyNode {
	n, ok := g.nodes[id]
	if !ok {
		n = &entities.DependencyNode{OperationID: id}
		g.nodes[id] = n
		g.order = append(g.order, id)
	}
	return n
}

// AddDependency records that a depends on b (b must complete before a starts): b is
// added to dependsOn(a) and a is added to requiredBy(b), unless already present
// (§4.3).
func (g *Graph) AddDependency(a, b entities.OperationID) {
	if a == b {
		return
	}
	na := g.ensureNode(a)
	nb := g.ensureNode(b)

	if !containsID(na.DependsOn, b) {
		na.DependsOn = append(na.DependsOn, b)
	}
	if !containsID(nb.RequiredBy, a) {
		nb.RequiredBy = append(nb.RequiredBy, a)
	}
}

func containsID(ids []entities.OperationID, target entities.OperationID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// Node returns the dependency node for id, or nil if unknown.
func (g *Graph) Node(id entities.OperationID) *entities.DependencyNode {
	return g.nodes[id]
}

// Len reports the number of operations tracked by the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// TopologicalSort linearizes the graph via Kahn's algorithm (§4.3): direction
// Forward starts from nodes with empty DependsOn (roots first); Reverse starts from
// nodes with empty RequiredBy (leaves first). Returns a CycleDetected-kind error
// naming the residual set when the emitted order is shorter than the node count.
func (g *Graph) TopologicalSort(direction entities.Direction) ([]entities.OperationID, error) {
	// degree(id) counts the edges that must be consumed before id can be emitted:
	// len(DependsOn) for Forward, len(RequiredBy) for Reverse.
	degree := make(map[entities.OperationID]int, len(g.nodes))
	for _, id := range g.order {
		n := g.nodes[id]
		if direction == entities.Forward {
			degree[id] = len(n.DependsOn)
		} else {
			degree[id] = len(n.RequiredBy)
		}
	}

	var queue []entities.OperationID
	for _, id := range g.order {
		if degree[id] == 0 {
			queue = append(queue, id)
		}
	}

	result := make([]entities.OperationID, 0, len(g.nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		result = append(result, cur)

		n := g.nodes[cur]
		var downstream []entities.OperationID
		if direction == entities.Forward {
			downstream = n.RequiredBy
		} else {
			downstream = n.DependsOn
		}

		for _, next := range downstream {
			degree[next]--
			if degree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(result) < len(g.nodes) {
		residual := residualSet(g.order, result)
		return nil, schederrors.New(schederrors.CycleDetected, "dependencygraph.TopologicalSort",
			fmt.Errorf("cycle among operations: %v", residual))
	}

	return result, nil
}

func residualSet(all, emitted []entities.OperationID) []entities.OperationID {
	seen := make(map[entities.OperationID]bool, len(emitted))
	for _, id := range emitted {
		seen[id] = true
	}
	var residual []entities.OperationID
	for _, id := range all {
		if !seen[id] {
			residual = append(residual, id)
		}
	}
	sort.Slice(residual, func(i, j int) bool { return residual[i] < residual[j] })
	return residual
}
