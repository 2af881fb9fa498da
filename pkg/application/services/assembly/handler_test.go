package assembly

import (
	"context"
	"testing"

	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/infrastructure/repositories/memory"
)

// buildTwoLevelAssembly wires a sub-method (child) under a top method, with a
// same-method chain of two operations in each, and returns the job id to load.
func buildTwoLevelAssembly(t *testing.T) (entities.JobID, *memory.AssemblyRepository, *memory.OperationRepository) {
	t.Helper()

	const jobID = entities.JobID("JOB-1")
	const topMethod = entities.MakeMethodID("TOP")
	const subMethod = entities.MakeMethodID("SUB")

	assemblyRepo := memory.NewAssemblyRepository()
	opRepo := memory.NewOperationRepository()

	parent := topMethod
	sub := &entities.MakeMethod{ID: subMethod, ParentMaterialID: &parent, ItemID: "BRACKET"}
	top := &entities.MakeMethod{ID: topMethod, ItemID: "ASSEMBLY", Children: []*entities.MakeMethod{sub}}
	assemblyRepo.SetRootMakeMethod(jobID, top)

	opRepo.AddOperation("CO", entities.Operation{ID: "SUB-10", JobID: jobID, MakeMethodID: subMethod, Order: 10, Status: entities.Ready})
	opRepo.AddOperation("CO", entities.Operation{ID: "SUB-20", JobID: jobID, MakeMethodID: subMethod, Order: 20, Status: entities.Ready})
	opRepo.AddOperation("CO", entities.Operation{ID: "TOP-10", JobID: jobID, MakeMethodID: topMethod, Order: 10, Status: entities.Ready})
	opRepo.AddOperation("CO", entities.Operation{ID: "SUB-DONE", JobID: jobID, MakeMethodID: subMethod, Order: 30, Status: entities.Done})

	return jobID, assemblyRepo, opRepo
}

func TestLoad_ExcludesTerminalOperations(t *testing.T) {
	jobID, assemblyRepo, opRepo := buildTwoLevelAssembly(t)
	h := NewHandler(assemblyRepo, opRepo)

	loaded, err := h.Load(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	subOps := loaded.OperationsByMethod["SUB"]
	if len(subOps) != 2 {
		t.Fatalf("expected 2 non-terminal sub operations (Done excluded), got %d", len(subOps))
	}
}

func TestLoad_ComputesDepth(t *testing.T) {
	jobID, assemblyRepo, opRepo := buildTwoLevelAssembly(t)
	h := NewHandler(assemblyRepo, opRepo)

	loaded, err := h.Load(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Depth != 2 {
		t.Errorf("expected assembly depth 2 (top + sub), got %d", loaded.Depth)
	}
}

func TestPostOrderOperations_ChildBeforeParent(t *testing.T) {
	jobID, assemblyRepo, opRepo := buildTwoLevelAssembly(t)
	h := NewHandler(assemblyRepo, opRepo)
	loaded, _ := h.Load(context.Background(), jobID)

	order := PostOrderOperations(loaded)
	indexOf := func(id entities.OperationID) int {
		for i, op := range order {
			if op.ID == id {
				return i
			}
		}
		return -1
	}
	if indexOf("SUB-10") > indexOf("TOP-10") {
		t.Errorf("post-order should emit child operations before parent: order=%v", order)
	}
}

func TestPreOrderOperations_ParentBeforeChild(t *testing.T) {
	jobID, assemblyRepo, opRepo := buildTwoLevelAssembly(t)
	h := NewHandler(assemblyRepo, opRepo)
	loaded, _ := h.Load(context.Background(), jobID)

	order := PreOrderOperations(loaded)
	indexOf := func(id entities.OperationID) int {
		for i, op := range order {
			if op.ID == id {
				return i
			}
		}
		return -1
	}
	if indexOf("TOP-10") > indexOf("SUB-10") {
		t.Errorf("pre-order should emit parent operations before child: order=%v", order)
	}
}

func TestBuildDependencyEdges_CrossMethodFallsBackToRankOne(t *testing.T) {
	jobID, assemblyRepo, opRepo := buildTwoLevelAssembly(t)
	h := NewHandler(assemblyRepo, opRepo)
	loaded, _ := h.Load(context.Background(), jobID)

	ids := []entities.OperationID{"SUB-10", "SUB-20", "TOP-10"}
	g := dependencygraph.New(ids)
	BuildDependencyEdges(g, loaded)

	// TOP-10 is the parent method's only (rank-1) operation, so it must gate on the
	// sub method's only root operation, SUB-10.
	top := g.Node("TOP-10")
	found := false
	for _, dep := range top.DependsOn {
		if dep == "SUB-10" {
			found = true
		}
	}
	if !found {
		t.Errorf("TOP-10 should depend on SUB-10 via the rank-1 fallback gate, got DependsOn=%v", top.DependsOn)
	}
}

func TestWithPreviousAnchors_SpansMultipleMethods(t *testing.T) {
	jobID, assemblyRepo, opRepo := buildTwoLevelAssembly(t)
	opRepo.AddOperation("CO", entities.Operation{ID: "SUB-15", JobID: jobID, MakeMethodID: "SUB", Order: 15, OperationOrder: entities.WithPrevious, Status: entities.Ready})

	h := NewHandler(assemblyRepo, opRepo)
	loaded, err := h.Load(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	anchors := WithPreviousAnchors(loaded)
	if anchors["SUB-15"] != "SUB-10" {
		t.Errorf("SUB-15 should anchor to SUB-10 (lowest Order in its rank), got %v", anchors)
	}
	if _, ok := anchors["TOP-10"]; ok {
		t.Errorf("TOP-10 has no With-Previous rank-mate, should not appear, got %v", anchors)
	}
}

func TestLoad_UnknownJobReturnsNotFound(t *testing.T) {
	assemblyRepo := memory.NewAssemblyRepository()
	opRepo := memory.NewOperationRepository()
	h := NewHandler(assemblyRepo, opRepo)

	_, err := h.Load(context.Background(), "MISSING")
	if err == nil {
		t.Fatal("expected an error for an unknown job")
	}
}
