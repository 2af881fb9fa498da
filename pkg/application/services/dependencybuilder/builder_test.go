package dependencybuilder

import (
	"testing"

	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
)

func op(id string, order int, opOrder entities.OperationOrder) entities.Operation {
	return entities.Operation{ID: entities.OperationID(id), Order: order, OperationOrder: opOrder}
}

func TestRank_SequentialOperationsEachGetOwnRank(t *testing.T) {
	ops := []entities.Operation{
		op("10", 10, entities.AfterPrevious),
		op("20", 20, entities.AfterPrevious),
		op("30", 30, entities.AfterPrevious),
	}
	groups := Rank(ops)
	if len(groups) != 3 {
		t.Fatalf("expected 3 ranks, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g) != 1 {
			t.Errorf("expected singleton rank, got %d members", len(g))
		}
	}
}

func TestRank_WithPreviousSharesRankOfPredecessor(t *testing.T) {
	ops := []entities.Operation{
		op("10", 10, entities.AfterPrevious),
		op("20", 20, entities.WithPrevious),
		op("30", 30, entities.AfterPrevious),
	}
	groups := Rank(ops)
	if len(groups) != 2 {
		t.Fatalf("expected 2 ranks (10+20 merged, then 30), got %d", len(groups))
	}
	if len(groups[0]) != 2 {
		t.Fatalf("expected rank 1 to contain both op 10 and op 20, got %d members", len(groups[0]))
	}
	if groups[0][0].ID != "10" || groups[0][1].ID != "20" {
		t.Errorf("rank 1 members out of Order: got %v", groups[0])
	}
}

func TestRank_LeadingWithPreviousFallsBackToRankOne(t *testing.T) {
	ops := []entities.Operation{
		op("10", 10, entities.WithPrevious),
	}
	groups := Rank(ops)
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("expected single rank-1 group, got %v", groups)
	}
}

func TestBuildSameMethodEdges_ChainsConsecutiveRanks(t *testing.T) {
	ops := []entities.Operation{
		op("10", 10, entities.AfterPrevious),
		op("20", 20, entities.AfterPrevious),
		op("30", 30, entities.WithPrevious),
	}
	g := dependencygraph.New([]entities.OperationID{"10", "20", "30"})
	BuildSameMethodEdges(g, ops)

	node20 := g.Node("20")
	if len(node20.DependsOn) != 1 || node20.DependsOn[0] != "10" {
		t.Errorf("op 20 should depend only on op 10, got %v", node20.DependsOn)
	}

	node30 := g.Node("30")
	if len(node30.DependsOn) != 1 || node30.DependsOn[0] != "10" {
		t.Errorf("op 30 (With Previous, sharing rank with 20) should depend only on op 10, got %v", node30.DependsOn)
	}
}

func TestRootOperations_ReturnsRankOne(t *testing.T) {
	ops := []entities.Operation{
		op("10", 10, entities.AfterPrevious),
		op("15", 15, entities.WithPrevious),
		op("20", 20, entities.AfterPrevious),
	}
	roots := RootOperations(ops)
	if len(roots) != 2 {
		t.Fatalf("expected 2 rank-1 operations, got %d", len(roots))
	}
}

func TestRootOperations_EmptyInput(t *testing.T) {
	if roots := RootOperations(nil); roots != nil {
		t.Errorf("expected nil for empty input, got %v", roots)
	}
}

func TestWithPreviousAnchors_MapsGroupMembersToLowestOrder(t *testing.T) {
	ops := []entities.Operation{
		op("10", 10, entities.AfterPrevious),
		op("20", 20, entities.WithPrevious),
		op("15", 15, entities.WithPrevious),
		op("30", 30, entities.AfterPrevious),
	}
	anchors := WithPreviousAnchors(ops)
	if len(anchors) != 2 {
		t.Fatalf("expected 2 anchored members, got %v", anchors)
	}
	if anchors["15"] != "10" || anchors["20"] != "10" {
		t.Errorf("both rank-1 With-Previous members should anchor to op 10, got %v", anchors)
	}
	if _, ok := anchors["10"]; ok {
		t.Error("the anchor itself should not appear as a key")
	}
	if _, ok := anchors["30"]; ok {
		t.Error("a singleton rank should produce no anchor entry")
	}
}

func TestWithPreviousAnchors_LeadingWithPreviousHasNoAnchor(t *testing.T) {
	ops := []entities.Operation{op("10", 10, entities.WithPrevious)}
	anchors := WithPreviousAnchors(ops)
	if len(anchors) != 0 {
		t.Errorf("a singleton rank-1 group has no other member to anchor to, got %v", anchors)
	}
}
