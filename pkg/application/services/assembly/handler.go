// Package assembly implements the Assembly Handler (§4.5): loading the method tree
// rooted at a job's top assembly, grouping operations by method, and emitting
// pre-/post-order operation streams plus cross-method dependency edges (§4.4).
//
// The tree is a value type with an array of children and no back pointers (§9); the
// scheduler never walks it directly — only the flat dependencygraph.Graph keyed by
// operation id. Traversal here is grounded on the teacher's BOMTraverser visitor
// pattern (VisitNode/ProcessChildren double dispatch); because this pass only needs
// to record traversal order and depth in a single walk, it is implemented as plain
// recursive functions rather than a visitor interface.
package assembly

import (
	"context"
	"fmt"

	"github.com/vsinha/opsched/pkg/application/services/dependencybuilder"
	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// Handler loads the assembly tree and its schedulable operations for a job.
type Handler struct {
	assemblyRepo repositories.AssemblyRepository
	opRepo       repositories.OperationRepository
}

// NewHandler constructs an Assembly Handler over the given storage port repositories.
func NewHandler(assemblyRepo repositories.AssemblyRepository, opRepo repositories.OperationRepository) *Handler {
	return &Handler{assemblyRepo: assemblyRepo, opRepo: opRepo}
}

// Loaded is the in-memory result of loading a job's assembly: the tree itself, its
// operations grouped by method id, and the method's computed depth.
type Loaded struct {
	Root               *entities.MakeMethod
	OperationsByMethod map[entities.MakeMethodID][]entities.Operation
	Depth              int
}

// Load fetches the method tree for jobID and, for every node, its non-terminal
// operations (§3 invariant: Done/Canceled are excluded). Returns a NotFound-kind error
// if the job has no root make method.
func (h *Handler) Load(ctx context.Context, jobID entities.JobID) (*Loaded, error) {
	root, err := h.assemblyRepo.GetRootMakeMethod(ctx, jobID)
	if err != nil {
		return nil, schederrors.New(schederrors.NotFound, "assembly.Load", err)
	}
	if root == nil {
		return nil, schederrors.New(schederrors.NotFound, "assembly.Load",
			fmt.Errorf("job %s has no root make method", jobID))
	}

	byMethod := make(map[entities.MakeMethodID][]entities.Operation)
	depth, err := h.loadNode(ctx, root, byMethod)
	if err != nil {
		return nil, err
	}

	return &Loaded{Root: root, OperationsByMethod: byMethod, Depth: depth}, nil
}

// loadNode recursively loads operations for method and its children, filtering out
// terminal ones, and returns the assembly depth rooted at method: 1 + max child depth,
// leaf = 1 (§4.5).
func (h *Handler) loadNode(ctx context.Context, method *entities.MakeMethod, byMethod map[entities.MakeMethodID][]entities.Operation) (int, error) {
	ops, err := h.opRepo.GetOperations(ctx, method.ID)
	if err != nil {
		return 0, schederrors.New(schederrors.StorageError, "assembly.loadNode", err)
	}

	var kept []entities.Operation
	for _, op := range ops {
		if op.Excluded() {
			continue
		}
		kept = append(kept, op)
	}
	byMethod[method.ID] = kept

	maxChildDepth := 0
	for _, child := range method.Children {
		childDepth, err := h.loadNode(ctx, child, byMethod)
		if err != nil {
			return 0, err
		}
		if childDepth > maxChildDepth {
			maxChildDepth = childDepth
		}
	}

	return 1 + maxChildDepth, nil
}

// PostOrderOperations returns operations with children's methods emitted before their
// parent's (§4.5), used for backward scheduling. Within a method, operations keep
// their natural slice order; the Scheduling Strategy re-derives precedence from the
// dependency graph, not from this order.
func PostOrderOperations(loaded *Loaded) []entities.Operation {
	var out []entities.Operation
	var walk func(m *entities.MakeMethod)
	walk = func(m *entities.MakeMethod) {
		for _, child := range m.Children {
			walk(child)
		}
		out = append(out, loaded.OperationsByMethod[m.ID]...)
	}
	walk(loaded.Root)
	return out
}

// PreOrderOperations returns operations with a method's own operations emitted before
// its children's (§4.5), used for forward scheduling.
func PreOrderOperations(loaded *Loaded) []entities.Operation {
	var out []entities.Operation
	var walk func(m *entities.MakeMethod)
	walk = func(m *entities.MakeMethod) {
		out = append(out, loaded.OperationsByMethod[m.ID]...)
		for _, child := range m.Children {
			walk(child)
		}
	}
	walk(loaded.Root)
	return out
}

// BuildDependencyEdges derives same-method edges (dependencybuilder) for every method
// in the tree and cross-method edges: for each child method, every one of its root
// operations must complete before the parent material's consuming operation starts
// (§4.4). The parent material is identified by the child method's ParentMaterialID;
// the consuming operation is the explicitly linked operation
// (Operation.ConsumesMakeMethodID) if one exists in the parent method, or else the
// parent method's rank-1 operations.
func BuildDependencyEdges(g *dependencygraph.Graph, loaded *Loaded) {
	var walk func(m *entities.MakeMethod)
	walk = func(m *entities.MakeMethod) {
		ops := loaded.OperationsByMethod[m.ID]
		dependencybuilder.BuildSameMethodEdges(g, ops)

		for _, child := range m.Children {
			childOps := loaded.OperationsByMethod[child.ID]
			childRoots := dependencybuilder.RootOperations(childOps)

			gates := consumingOperations(ops, child.ID)

			for _, gate := range gates {
				for _, root := range childRoots {
					g.AddDependency(gate.ID, root.ID)
				}
			}

			walk(child)
		}
	}
	walk(loaded.Root)
}

// WithPreviousAnchors derives each With-Previous operation's rank-mate anchor
// (dependencybuilder.WithPreviousAnchors) across every method in the tree, keyed by
// operation id, for the Scheduling Strategy to consult when sharing dates (§4.4).
func WithPreviousAnchors(loaded *Loaded) map[entities.OperationID]entities.OperationID {
	anchors := make(map[entities.OperationID]entities.OperationID)
	for _, ops := range loaded.OperationsByMethod {
		for id, anchor := range dependencybuilder.WithPreviousAnchors(ops) {
			anchors[id] = anchor
		}
	}
	return anchors
}

// consumingOperations returns the parent operation(s) that gate on childID's
// completion: the explicitly linked operation if one references childID, or else the
// parent method's rank-1 operations (§4.4 fallback).
func consumingOperations(parentOps []entities.Operation, childID entities.MakeMethodID) []entities.Operation {
	for _, op := range parentOps {
		if op.ConsumesMakeMethodID != nil && *op.ConsumesMakeMethodID == childID {
			return []entities.Operation{op}
		}
	}
	return dependencybuilder.RootOperations(parentOps)
}
