package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/domain/repositories"
	"github.com/vsinha/opsched/pkg/domain/services/duration"
)

// OperationRepository stores operations indexed by id and by make method, plus a
// company assignment used to scope UpdateOperations and LoadForWorkCenter.
type OperationRepository struct {
	mu sync.RWMutex

	ops         map[entities.OperationID]entities.Operation
	byMethod    map[entities.MakeMethodID][]entities.OperationID
	companyOfOp map[entities.OperationID]string
}

// NewOperationRepository creates an empty in-memory operation repository.
func NewOperationRepository() *OperationRepository {
	return &OperationRepository{
		ops:         make(map[entities.OperationID]entities.Operation),
		byMethod:    make(map[entities.MakeMethodID][]entities.OperationID),
		companyOfOp: make(map[entities.OperationID]string),
	}
}

var _ repositories.OperationRepository = (*OperationRepository)(nil)

// AddOperation loads a single operation into the repository under companyID,
// indexed by its MakeMethodID.
func (r *OperationRepository) AddOperation(companyID string, op entities.Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[op.ID]; !exists {
		r.byMethod[op.MakeMethodID] = append(r.byMethod[op.MakeMethodID], op.ID)
	}
	r.ops[op.ID] = op
	r.companyOfOp[op.ID] = companyID
}

// GetOperations returns the non-terminal operations belonging to makeMethodID, in the
// order they were added; Done and Canceled operations are skipped.
func (r *OperationRepository) GetOperations(ctx context.Context, makeMethodID entities.MakeMethodID) ([]entities.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byMethod[makeMethodID]
	out := make([]entities.Operation, 0, len(ids))
	for _, id := range ids {
		if r.ops[id].Excluded() {
			continue
		}
		out = append(out, r.ops[id])
	}
	return out, nil
}

// UpdateOperations writes back the scheduled fields of every operation in ops,
// scoped to companyID: operations owned by a different company are left untouched.
func (r *OperationRepository) UpdateOperations(ctx context.Context, companyID string, ops []entities.ScheduledOperation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, so := range ops {
		if r.companyOfOp[so.ID()] != companyID {
			continue
		}
		op := r.ops[so.ID()]
		op.ExistingStartDate = timePtr(so.StartDate)
		op.ExistingDueDate = timePtr(so.DueDate)
		op.WorkCenterID = so.WorkCenterID
		op.JobPriority = intPtr(so.Priority)
		r.ops[so.ID()] = op
	}
	return nil
}

// LoadForWorkCenter sums the duration (setup plus the larger of labor and machine
// hours, per duration.Duration) of every non-terminal operation assigned to
// workCenterID under companyID whose existing start date is null or on/before
// beforeDate.
func (r *OperationRepository) LoadForWorkCenter(ctx context.Context, companyID string, workCenterID entities.WorkCenterID, beforeDate time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for id, op := range r.ops {
		if r.companyOfOp[id] != companyID {
			continue
		}
		if op.WorkCenterID == nil || *op.WorkCenterID != workCenterID {
			continue
		}
		if op.Excluded() {
			continue
		}
		if op.ExistingStartDate != nil && op.ExistingStartDate.After(beforeDate) {
			continue
		}
		total += hoursOf(op)
	}
	return total, nil
}

func hoursOf(op entities.Operation) float64 {
	hours, _ := duration.Duration(op)
	return hours
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func intPtr(n int) *int {
	out := n
	return &out
}
