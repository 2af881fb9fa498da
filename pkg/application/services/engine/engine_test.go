package engine

import (
	"context"
	"testing"
	"time"

	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/infrastructure/repositories/memory"
)

const companyID = "CO"

// buildFixture is a reduced form of the demo binary's scenario: a two-level assembly
// (one sub method feeding a top method), two processes, and two work centers, so a
// single Run exercises every engine step end to end.
func buildFixture(t *testing.T, jobID entities.JobID, dueDate time.Time) *Engine {
	t.Helper()

	assemblyRepo := memory.NewAssemblyRepository()
	opRepo := memory.NewOperationRepository()
	depRepo := memory.NewDependencyRepository()
	jobRepo := memory.NewJobRepository()
	processRepo := memory.NewProcessRepository()
	wcRepo := memory.NewWorkCenterRepository()

	const (
		topMethod = entities.MakeMethodID("ASSY-TOP")
		subMethod = entities.MakeMethodID("ASSY-SUB")

		procWeld    = entities.ProcessID("WELD")
		procInspect = entities.ProcessID("INSPECT")
	)

	parent := topMethod
	sub := &entities.MakeMethod{ID: subMethod, ParentMaterialID: &parent, ItemID: "BRACKET"}
	top := &entities.MakeMethod{ID: topMethod, ItemID: "ASSEMBLY", Children: []*entities.MakeMethod{sub}}
	assemblyRepo.SetRootMakeMethod(jobID, top)

	hours := func(h float64) entities.TimeValue {
		v := h
		return entities.TimeValue{Time: &v, Unit: entities.TotalHours}
	}

	opRepo.AddOperation(companyID, entities.Operation{ID: "SUB-10", JobID: jobID, MakeMethodID: subMethod, Order: 10, ProcessID: procWeld, Labor: hours(8), Status: entities.Ready, Type: entities.Inside})
	opRepo.AddOperation(companyID, entities.Operation{ID: "TOP-10", JobID: jobID, MakeMethodID: topMethod, Order: 10, ProcessID: procInspect, Labor: hours(2), Status: entities.Ready, Type: entities.Inside})

	processRepo.AddProcess(companyID, entities.Process{ID: procWeld, WorkCenterIDs: []entities.WorkCenterID{"WC-WELD-1"}})
	processRepo.AddProcess(companyID, entities.Process{ID: procInspect, WorkCenterIDs: []entities.WorkCenterID{"WC-QC-1"}})

	wcRepo.AddWorkCenter(companyID, entities.WorkCenter{ID: "WC-WELD-1", Location: "MAIN", Active: true})
	wcRepo.AddWorkCenter(companyID, entities.WorkCenter{ID: "WC-QC-1", Location: "MAIN", Active: true})

	jobRepo.AddJobHeader(entities.JobHeader{JobID: jobID, CompanyID: companyID, Location: "MAIN", DueDate: &dueDate, DeadlineType: entities.SoftDeadline})

	return New(assemblyRepo, opRepo, depRepo, jobRepo, processRepo, wcRepo)
}

func TestRun_SchedulesAcrossAssemblyLevels(t *testing.T) {
	jobID := entities.JobID("JOB-1")
	due := time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC) // far future, no conflicts
	eng := buildFixture(t, jobID, due)

	result, err := eng.Run(context.Background(), Request{
		JobID: string(jobID), CompanyID: companyID, UserID: "u1",
		Mode: ModeInitial, Direction: DirectionBackward,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.OperationsScheduled != 2 {
		t.Errorf("expected 2 operations scheduled, got %d", result.OperationsScheduled)
	}
	if result.AssemblyDepth != 2 {
		t.Errorf("expected assembly depth 2, got %d", result.AssemblyDepth)
	}
	if result.ConflictsDetected != 0 {
		t.Errorf("expected no conflicts with a far-future due date, got %d", result.ConflictsDetected)
	}
	if len(result.WorkCentersAffected) != 2 {
		t.Errorf("expected both work centers to be affected, got %v", result.WorkCentersAffected)
	}
}

func TestRun_ForwardDirection(t *testing.T) {
	jobID := entities.JobID("JOB-2")
	due := time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC)
	eng := buildFixture(t, jobID, due)

	result, err := eng.Run(context.Background(), Request{
		JobID: string(jobID), CompanyID: companyID, UserID: "u1",
		Mode: ModeInitial, Direction: DirectionForward,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.OperationsScheduled != 2 {
		t.Errorf("expected 2 operations scheduled, got %d", result.OperationsScheduled)
	}
}

func TestRun_MissingJobIDIsInvalidInput(t *testing.T) {
	eng := buildFixture(t, "JOB-3", time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC))
	_, err := eng.Run(context.Background(), Request{CompanyID: companyID, UserID: "u1"})
	if err == nil {
		t.Fatal("expected an InvalidInput error for a missing job id")
	}
}

func TestRun_UnknownJobSucceedsAsNoOp(t *testing.T) {
	eng := buildFixture(t, "JOB-4", time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC))
	result, err := eng.Run(context.Background(), Request{JobID: "NOPE", CompanyID: companyID, UserID: "u1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Errorf("a job with no assembly should succeed as a no-op, got %+v", result)
	}
}

func TestRun_DefaultsModeAndDirection(t *testing.T) {
	jobID := entities.JobID("JOB-5")
	eng := buildFixture(t, jobID, time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC))

	result, err := eng.Run(context.Background(), Request{JobID: string(jobID), CompanyID: companyID, UserID: "u1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Errorf("expected defaulted mode/direction to succeed, got %+v", result)
	}
}
