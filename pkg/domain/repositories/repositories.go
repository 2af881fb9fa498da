// Package repositories declares the storage port (§6): the read/write capabilities
// the Engine needs from the surrounding system (relational schema, row-level-security,
// etc., all of which are out of scope per §1). Each interface is small and named after
// the aggregate it serves, following the teacher's BOMRepository/ItemRepository split.
package repositories

import (
	"context"
	"time"

	"github.com/vsinha/opsched/pkg/domain/entities"
)

// AssemblyRepository loads the method tree rooted at a job's top assembly (§4.5).
type AssemblyRepository interface {
	// GetRootMakeMethod returns the make method with a null parent material id for
	// the given job, or a NotFound-kind error if the job has none.
	GetRootMakeMethod(ctx context.Context, jobID entities.JobID) (*entities.MakeMethod, error)
}

// OperationRepository loads and persists operations for a job (§6).
type OperationRepository interface {
	// GetOperations returns operations for a make method, excluding Done/Canceled
	// (§3 invariant).
	GetOperations(ctx context.Context, makeMethodID entities.MakeMethodID) ([]entities.Operation, error)

	// UpdateOperations writes back StartDate, DueDate, WorkCenterID, and Priority for
	// the given operations, scoped by company id, as a single atomic batch (§6, §7).
	UpdateOperations(ctx context.Context, companyID string, ops []entities.ScheduledOperation) error

	// LoadForWorkCenter returns the accumulated hours of all non-terminal operations
	// already assigned to workCenterID whose start date is null or on/before
	// beforeDate (§4.7).
	LoadForWorkCenter(ctx context.Context, companyID string, workCenterID entities.WorkCenterID, beforeDate time.Time) (float64, error)
}

// DependencyRepository replaces the persisted dependency edge set for a job (§6, §7).
type DependencyRepository interface {
	// ReplaceDependencies atomically replaces the prior dependency set for jobID with
	// the given edges.
	ReplaceDependencies(ctx context.Context, companyID string, jobID entities.JobID, nodes map[entities.OperationID]*entities.DependencyNode) error
}

// ProcessRepository loads processes and their eligible work centers (§4.7).
type ProcessRepository interface {
	// GetProcess returns the process definition (with its allowed work-center list)
	// for a company, or NotFound if processID is unknown.
	GetProcess(ctx context.Context, companyID string, processID entities.ProcessID) (*entities.Process, error)

	// ListProcesses returns every process defined for a company, in a stable,
	// deterministic iteration order, for the Work-Center Selector's per-run
	// initialization (§4.7).
	ListProcesses(ctx context.Context, companyID string) ([]entities.Process, error)
}

// WorkCenterRepository loads active work centers for a company/location (§4.7).
type WorkCenterRepository interface {
	// GetActiveWorkCenters returns the active work centers at location for a
	// company, in a stable, deterministic iteration order.
	GetActiveWorkCenters(ctx context.Context, companyID string, location string) ([]entities.WorkCenter, error)
}

// JobRepository loads job header data (§6).
type JobRepository interface {
	GetJobHeader(ctx context.Context, companyID string, jobID entities.JobID) (*entities.JobHeader, error)
}
