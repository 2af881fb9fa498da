// Package dependencybuilder implements the Dependency Builder (§4.4): deriving
// same-method precedence edges from an operation's order and "With Previous"
// grouping. Cross-method edges are the Assembly Handler's responsibility (§4.4,
// §4.5) and are not built here.
//
// "With Previous" is modeled purely as a ranking attribute during edge construction,
// never as a runtime parallelism primitive (§9): once edges exist, a With-Previous
// operation is just a node sharing predecessors with its group-mate.
package dependencybuilder

import (
	"sort"

	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
)

// Rank groups operations of one make method by their adjusted rank (§4.4): operations
// marked With Previous inherit the rank of the most recent preceding operation that is
// not With Previous; all others take their sequence position (1-based, after sorting
// by Order). If a With-Previous operation has no qualifying predecessor, its rank is 1.
//
// Rank returns ranks in ascending order, each group already sorted by Order — this
// makes "first predecessor" in a parallel group well-defined: the group member with
// the lowest Order value.
func Rank(ops []entities.Operation) [][]entities.Operation {
	sorted := make([]entities.Operation, len(ops))
	copy(sorted, ops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	ranks := make([]int, len(sorted))
	sequencePosition := 0
	lastNonParallelRank := 1

	for i, op := range sorted {
		if op.OperationOrder == entities.WithPrevious {
			ranks[i] = lastNonParallelRank
			continue
		}
		sequencePosition++
		ranks[i] = sequencePosition
		lastNonParallelRank = sequencePosition
	}

	byRank := make(map[int][]entities.Operation)
	var rankOrder []int
	for i, op := range sorted {
		r := ranks[i]
		if _, ok := byRank[r]; !ok {
			rankOrder = append(rankOrder, r)
		}
		byRank[r] = append(byRank[r], op)
	}
	sort.Ints(rankOrder)

	groups := make([][]entities.Operation, 0, len(rankOrder))
	for _, r := range rankOrder {
		groups = append(groups, byRank[r])
	}
	return groups
}

// BuildSameMethodEdges adds, for every operation in rank k+1, a dependency on every
// operation in rank k (§4.4). Operations sharing a rank run in parallel and get no
// edge between them.
func BuildSameMethodEdges(g *dependencygraph.Graph, ops []entities.Operation) {
	groups := Rank(ops)
	for k := 1; k < len(groups); k++ {
		for _, dependent := range groups[k] {
			for _, predecessor := range groups[k-1] {
				g.AddDependency(dependent.ID, predecessor.ID)
			}
		}
	}
}

// RootOperations returns the operations of a make method with no same-method
// predecessors — rank 1 — used by the Assembly Handler to wire cross-method edges
// (§4.4: "every root operation of that child").
func RootOperations(ops []entities.Operation) []entities.Operation {
	groups := Rank(ops)
	if len(groups) == 0 {
		return nil
	}
	return groups[0]
}

// WithPreviousAnchors maps every With-Previous operation to the lowest-Order member
// of its rank group (§4.4): the operation whose start and due dates it must share
// exactly. A rank group's own edges (BuildSameMethodEdges) never connect its members
// to each other, so the Scheduling Strategy cannot recover this pairing from the
// dependency graph alone — it is carried separately through this map.
func WithPreviousAnchors(ops []entities.Operation) map[entities.OperationID]entities.OperationID {
	anchors := make(map[entities.OperationID]entities.OperationID)
	for _, group := range Rank(ops) {
		if len(group) < 2 {
			continue
		}
		anchor := group[0].ID
		for _, member := range group[1:] {
			anchors[member.ID] = anchor
		}
	}
	return anchors
}
