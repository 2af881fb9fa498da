package main

import (
	"time"

	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/infrastructure/repositories/memory"
)

// demoRepos builds a small in-memory scenario: a two-level assembly (one sub-method
// feeding a top method) with three processes and four work centers, so the binary
// produces a meaningful schedule with no external input required. Grounded on the
// teacher's cmd/mrp -scenario convention, adapted to an in-code fixture because this
// domain's inputs (methods/operations/processes) have no existing CSV loader to adapt.
func demoRepos(companyID string, jobID entities.JobID, dueDate time.Time) (
	*memory.AssemblyRepository,
	*memory.OperationRepository,
	*memory.DependencyRepository,
	*memory.JobRepository,
	*memory.ProcessRepository,
	*memory.WorkCenterRepository,
) {
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
		procPaint   = entities.ProcessID("PAINT")
		procInspect = entities.ProcessID("INSPECT")
	)

	sub := &entities.MakeMethod{ID: subMethod, ParentMaterialID: nil, ItemID: "BRACKET"}
	top := &entities.MakeMethod{ID: topMethod, ItemID: "ASSEMBLY", Children: []*entities.MakeMethod{sub}}
	sub.ParentMaterialID = topPtr(topMethod)
	assemblyRepo.SetRootMakeMethod(jobID, top)

	hours := func(h float64) entities.TimeValue {
		v := h
		return entities.TimeValue{Time: &v, Unit: entities.TotalHours}
	}

	subOps := []entities.Operation{
		{ID: "SUB-10", JobID: jobID, MakeMethodID: subMethod, Order: 10, ProcessID: procWeld, Labor: hours(8), Status: entities.Ready, Type: entities.Inside},
		{ID: "SUB-20", JobID: jobID, MakeMethodID: subMethod, Order: 20, ProcessID: procInspect, Labor: hours(2), Status: entities.Ready, Type: entities.Inside},
	}
	topOps := []entities.Operation{
		{ID: "TOP-10", JobID: jobID, MakeMethodID: topMethod, Order: 10, ProcessID: procWeld, Labor: hours(6), Status: entities.Ready, Type: entities.Inside},
		{ID: "TOP-20", JobID: jobID, MakeMethodID: topMethod, Order: 20, ProcessID: procPaint, Labor: hours(4), Status: entities.Ready, Type: entities.Inside, OperationOrder: entities.WithPrevious},
		{ID: "TOP-30", JobID: jobID, MakeMethodID: topMethod, Order: 30, ProcessID: procInspect, Labor: hours(1), Status: entities.Ready, Type: entities.Inside},
	}
	for _, op := range subOps {
		opRepo.AddOperation(companyID, op)
	}
	for _, op := range topOps {
		opRepo.AddOperation(companyID, op)
	}

	processRepo.AddProcess(companyID, entities.Process{ID: procWeld, WorkCenterIDs: []entities.WorkCenterID{"WC-WELD-1", "WC-WELD-2"}})
	processRepo.AddProcess(companyID, entities.Process{ID: procPaint, WorkCenterIDs: []entities.WorkCenterID{"WC-PAINT-1"}})
	processRepo.AddProcess(companyID, entities.Process{ID: procInspect, WorkCenterIDs: []entities.WorkCenterID{"WC-QC-1"}})

	for _, wc := range []entities.WorkCenterID{"WC-WELD-1", "WC-WELD-2", "WC-PAINT-1", "WC-QC-1"} {
		wcRepo.AddWorkCenter(companyID, entities.WorkCenter{ID: wc, Location: "MAIN", Active: true})
	}

	jobRepo.AddJobHeader(entities.JobHeader{
		JobID: jobID, CompanyID: companyID, Location: "MAIN",
		DueDate: &dueDate, DeadlineType: entities.SoftDeadline,
	})

	return assemblyRepo, opRepo, depRepo, jobRepo, processRepo, wcRepo
}

func topPtr(id entities.MakeMethodID) *entities.MakeMethodID {
	return &id
}
