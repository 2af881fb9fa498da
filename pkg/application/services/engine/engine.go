// Package engine implements the Engine (§4.9): the orchestrator that loads an
// assembly, builds its dependency graph, runs the selected scheduling strategy,
// assigns work centers and priorities, and persists the result. Grounded on the
// teacher's pkg/mrp.Engine: a struct of repository fields plus a config, one public
// entry point, and fmt.Errorf("...: %w", err) wrapping at every step.
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/opsched/pkg/application/services/assembly"
	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/application/services/priority"
	"github.com/vsinha/opsched/pkg/application/services/scheduling"
	"github.com/vsinha/opsched/pkg/application/services/workcenter"
	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
	"github.com/vsinha/opsched/pkg/domain/services/calendar"
	"github.com/vsinha/opsched/pkg/infrastructure/logging"
	"github.com/vsinha/opsched/pkg/infrastructure/metrics"
)

// Config holds Engine construction options, mirroring the teacher's EngineConfig.
type Config struct {
	Logger   *zap.Logger
	Metrics  *metrics.Recorder
	Calendar calendar.Provider
}

// Engine orchestrates one scheduling invocation (§4.9).
type Engine struct {
	assemblyHandler *assembly.Handler
	opRepo          repositories.OperationRepository
	depRepo         repositories.DependencyRepository
	jobRepo         repositories.JobRepository
	selector        *workcenter.Selector

	logger  *zap.Logger
	metrics *metrics.Recorder
	cal     calendar.Provider
}

// New constructs an Engine from its storage port repositories with default
// configuration (a no-op logger, no metrics, the default Mon-Fri calendar).
func New(
	assemblyRepo repositories.AssemblyRepository,
	opRepo repositories.OperationRepository,
	depRepo repositories.DependencyRepository,
	jobRepo repositories.JobRepository,
	processRepo repositories.ProcessRepository,
	wcRepo repositories.WorkCenterRepository,
) *Engine {
	return NewWithConfig(assemblyRepo, opRepo, depRepo, jobRepo, processRepo, wcRepo, Config{})
}

// NewWithConfig constructs an Engine with explicit logging/metrics/calendar
// configuration.
func NewWithConfig(
	assemblyRepo repositories.AssemblyRepository,
	opRepo repositories.OperationRepository,
	depRepo repositories.DependencyRepository,
	jobRepo repositories.JobRepository,
	processRepo repositories.ProcessRepository,
	wcRepo repositories.WorkCenterRepository,
	cfg Config,
) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	cal := cfg.Calendar
	if cal == nil {
		cal = calendar.Default
	}

	return &Engine{
		assemblyHandler: assembly.NewHandler(assemblyRepo, opRepo),
		opRepo:          opRepo,
		depRepo:         depRepo,
		jobRepo:         jobRepo,
		selector:        workcenter.NewSelector(processRepo, wcRepo, opRepo),
		logger:          logger,
		metrics:         cfg.Metrics,
		cal:             cal,
	}
}

// Run executes one scheduling invocation for req (§4.9).
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	stop := e.metrics.Timer()
	defer stop()

	if err := validate(&req); err != nil {
		e.metrics.ObserveError(schederrors.InvalidInput.String())
		return nil, err
	}

	jobID := entities.JobID(req.JobID)

	loaded, err := e.assemblyHandler.Load(ctx, jobID)
	if err != nil {
		if schederrors.Is(err, schederrors.NotFound) {
			e.logger.Info("job has no root make method", zap.String("job_id", req.JobID))
			return &Result{Success: true}, nil
		}
		e.metrics.ObserveError(schederrors.StorageError.String())
		return nil, err
	}
	e.logger.Info("assembly loaded", zap.String("job_id", req.JobID), zap.Int("assembly_depth", loaded.Depth))

	scheduleDirection := scheduling.Backward
	if req.Direction == DirectionForward {
		scheduleDirection = scheduling.ForwardSchedule
	}

	var traversal []entities.Operation
	if scheduleDirection == scheduling.ForwardSchedule {
		traversal = assembly.PreOrderOperations(loaded)
	} else {
		traversal = assembly.PostOrderOperations(loaded)
	}

	if len(traversal) == 0 {
		e.logger.Info("job has no schedulable operations", zap.String("job_id", req.JobID))
		return &Result{Success: true, AssemblyDepth: loaded.Depth}, nil
	}

	opsByID := make(map[entities.OperationID]entities.Operation, len(traversal))
	opIDs := make([]entities.OperationID, 0, len(traversal))
	for _, op := range traversal {
		opsByID[op.ID] = op
		opIDs = append(opIDs, op.ID)
	}

	graph := dependencygraph.New(opIDs)
	assembly.BuildDependencyEdges(graph, loaded)

	nodes := make(map[entities.OperationID]*entities.DependencyNode, len(opIDs))
	for _, id := range opIDs {
		nodes[id] = graph.Node(id)
	}
	if err := e.depRepo.ReplaceDependencies(ctx, req.CompanyID, jobID, nodes); err != nil {
		e.metrics.ObserveError(schederrors.StorageError.String())
		return nil, schederrors.New(schederrors.StorageError, "engine.Run", fmt.Errorf("replace dependencies: %w", err))
	}
	e.logger.Info("dependency graph built", zap.String("job_id", req.JobID), zap.Int("operations", len(opIDs)))

	jobHeader, err := e.jobRepo.GetJobHeader(ctx, req.CompanyID, jobID)
	if err != nil && !schederrors.Is(err, schederrors.NotFound) {
		e.metrics.ObserveError(schederrors.StorageError.String())
		return nil, schederrors.New(schederrors.StorageError, "engine.Run", fmt.Errorf("load job header: %w", err))
	}

	anchor := calendar.Today()
	if scheduleDirection == scheduling.ForwardSchedule {
		if jobHeader != nil && jobHeader.StartDate != nil {
			anchor = calendar.CivilDate(*jobHeader.StartDate)
		}
	} else {
		if jobHeader != nil && jobHeader.DueDate != nil {
			anchor = calendar.CivilDate(*jobHeader.DueDate)
		}
	}

	withPreviousAnchors := assembly.WithPreviousAnchors(loaded)

	strategy := scheduling.ForDirection(scheduleDirection)
	scheduledByID, err := strategy.Schedule(traversal, opsByID, graph, anchor, e.cal, withPreviousAnchors)
	if err != nil {
		e.metrics.ObserveError(schederrors.CycleDetected.String())
		return nil, err
	}
	e.logger.Info("strategy complete", zap.String("job_id", req.JobID), zap.String("direction", string(req.Direction)))

	scheduledOps := make([]*entities.ScheduledOperation, 0, len(scheduledByID))
	for _, id := range opIDs {
		if so, ok := scheduledByID[id]; ok {
			scheduledOps = append(scheduledOps, so)
		}
	}

	if err := e.selector.Init(ctx, req.CompanyID, jobLocation(jobHeader)); err != nil {
		e.metrics.ObserveError(schederrors.StorageError.String())
		return nil, err
	}
	if err := e.selector.SelectWorkCentersForOperations(ctx, scheduledOps); err != nil {
		e.metrics.ObserveError(schederrors.StorageError.String())
		return nil, err
	}
	e.logger.Info("work centers assigned", zap.String("job_id", req.JobID))

	priority.Assign(scheduledOps)
	e.logger.Info("priorities assigned", zap.String("job_id", req.JobID))

	for _, so := range scheduledOps {
		if so.HasConflict {
			e.logger.Warn("scheduling conflict", zap.String("job_id", req.JobID),
				zap.String("operation_id", string(so.ID())), zap.String("reason", so.ConflictReason))
		}
	}

	if err := e.opRepo.UpdateOperations(ctx, req.CompanyID, derefAll(scheduledOps)); err != nil {
		e.metrics.ObserveError(schederrors.StorageError.String())
		return nil, schederrors.New(schederrors.StorageError, "engine.Run", fmt.Errorf("persist operations: %w", err))
	}
	e.logger.Info("persisted", zap.String("job_id", req.JobID), zap.Int("operations", len(scheduledOps)))

	result := summarize(scheduledOps, loaded.Depth)
	e.metrics.ObserveResult(result.OperationsScheduled, result.ConflictsDetected, len(result.WorkCentersAffected))
	return result, nil
}

func jobLocation(h *entities.JobHeader) string {
	if h == nil {
		return ""
	}
	return h.Location
}

func derefAll(ops []*entities.ScheduledOperation) []entities.ScheduledOperation {
	out := make([]entities.ScheduledOperation, len(ops))
	for i, op := range ops {
		out[i] = *op
	}
	return out
}

func summarize(ops []*entities.ScheduledOperation, depth int) *Result {
	conflicts := 0
	affected := make(map[entities.WorkCenterID]bool)
	var order []entities.WorkCenterID

	for _, op := range ops {
		if op.HasConflict {
			conflicts++
		}
		if op.WorkCenterID != nil {
			if !affected[*op.WorkCenterID] {
				order = append(order, *op.WorkCenterID)
			}
			affected[*op.WorkCenterID] = true
		}
	}

	wcs := make([]string, 0, len(order))
	for _, id := range order {
		wcs = append(wcs, string(id))
	}

	return &Result{
		Success:             true,
		OperationsScheduled: len(ops),
		ConflictsDetected:   conflicts,
		WorkCentersAffected: wcs,
		AssemblyDepth:       depth,
	}
}

func validate(req *Request) error {
	if req.JobID == "" {
		return schederrors.New(schederrors.InvalidInput, "engine.validate", fmt.Errorf("jobId is required"))
	}
	if req.CompanyID == "" {
		return schederrors.New(schederrors.InvalidInput, "engine.validate", fmt.Errorf("companyId is required"))
	}
	if req.UserID == "" {
		return schederrors.New(schederrors.InvalidInput, "engine.validate", fmt.Errorf("userId is required"))
	}

	if req.Mode == "" {
		req.Mode = ModeInitial
	} else if req.Mode != ModeInitial && req.Mode != ModeReschedule {
		return schederrors.New(schederrors.InvalidInput, "engine.validate", fmt.Errorf("unknown mode %q", req.Mode))
	}

	if req.Direction == "" {
		req.Direction = DirectionBackward
	} else if req.Direction != DirectionBackward && req.Direction != DirectionForward {
		return schederrors.New(schederrors.InvalidInput, "engine.validate", fmt.Errorf("unknown direction %q", req.Direction))
	}

	return nil
}
