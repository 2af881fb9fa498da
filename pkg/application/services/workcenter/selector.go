// Package workcenter implements the Work-Center Selector (§4.7): load balancing
// across eligible work centers using current storage-backed load plus an in-memory
// accumulator scoped to one run. The accumulator is grounded on the teacher's
// shared.AllocationContext per-run map (reset per batch, never a package global,
// per §9 "In-memory load tally").
package workcenter

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// Selector assigns work centers to scheduled operations by load (§4.7).
type Selector struct {
	processRepo repositories.ProcessRepository
	wcRepo      repositories.WorkCenterRepository
	opRepo      repositories.OperationRepository

	companyID string
	location  string

	// eligibleByProcess maps a process id to its eligible work centers — active at
	// location, and allowed by the process — in the process's declared order.
	eligibleByProcess map[entities.ProcessID][]entities.WorkCenterID

	// tally accumulates hours assigned in the current run, keyed by work center.
	tally map[entities.WorkCenterID]float64
}

// NewSelector constructs a Work-Center Selector over the given storage port
// repositories.
func NewSelector(processRepo repositories.ProcessRepository, wcRepo repositories.WorkCenterRepository, opRepo repositories.OperationRepository) *Selector {
	return &Selector{
		processRepo: processRepo,
		wcRepo:      wcRepo,
		opRepo:      opRepo,
		tally:       make(map[entities.WorkCenterID]float64),
	}
}

// Init loads every process and every active work center at location for companyID,
// and builds the process -> eligible-work-center index (§4.7): a work center is
// eligible for a process iff it is both allowed by the process and active at the
// target location.
func (s *Selector) Init(ctx context.Context, companyID, location string) error {
	s.companyID = companyID
	s.location = location

	processes, err := s.processRepo.ListProcesses(ctx, companyID)
	if err != nil {
		return schederrors.New(schederrors.StorageError, "workcenter.Init", err)
	}

	activeWCs, err := s.wcRepo.GetActiveWorkCenters(ctx, companyID, location)
	if err != nil {
		return schederrors.New(schederrors.StorageError, "workcenter.Init", err)
	}

	active := make(map[entities.WorkCenterID]bool, len(activeWCs))
	for _, wc := range activeWCs {
		if wc.Active {
			active[wc.ID] = true
		}
	}

	eligible := make(map[entities.ProcessID][]entities.WorkCenterID, len(processes))
	for _, p := range processes {
		var wcs []entities.WorkCenterID
		for _, wc := range p.WorkCenterIDs {
			if active[wc] {
				wcs = append(wcs, wc)
			}
		}
		eligible[p.ID] = wcs
	}
	s.eligibleByProcess = eligible

	return nil
}

// SelectWorkCenter returns the id of the eligible work center with the lowest total
// load for processID: storage-backed load of non-terminal operations starting on or
// before beforeDate, plus the in-memory tally accumulated so far this run (§4.7).
// beforeDate defaults to today when the zero time.Time is passed.
func (s *Selector) SelectWorkCenter(ctx context.Context, processID entities.ProcessID, beforeDate time.Time) (entities.WorkCenterID, error) {
	if beforeDate.IsZero() {
		beforeDate = time.Now()
	}

	eligible, ok := s.eligibleByProcess[processID]
	if !ok {
		return "", schederrors.New(schederrors.NoEligibleWorkCenter, "workcenter.SelectWorkCenter",
			fmt.Errorf("unknown process %s", processID))
	}
	if len(eligible) == 0 {
		return "", schederrors.New(schederrors.NoEligibleWorkCenter, "workcenter.SelectWorkCenter",
			fmt.Errorf("process %s has no eligible work centers at location %s", processID, s.location))
	}

	var best entities.WorkCenterID
	bestLoad := 0.0
	found := false

	for _, wc := range eligible {
		stored, err := s.opRepo.LoadForWorkCenter(ctx, s.companyID, wc, beforeDate)
		if err != nil {
			return "", schederrors.New(schederrors.StorageError, "workcenter.SelectWorkCenter", err)
		}
		load := stored + s.tally[wc]

		if !found || load < bestLoad {
			best = wc
			bestLoad = load
			found = true
		}
	}

	if !found {
		return "", schederrors.New(schederrors.NoEligibleWorkCenter, "workcenter.SelectWorkCenter",
			fmt.Errorf("no candidate work center evaluated for process %s", processID))
	}

	return best, nil
}

// SelectWorkCentersForOperations resets the in-memory tally, then assigns a work
// center to every non-Outside operation, sorted by StartDate ascending (§4.7). Outside
// operations bypass resource assignment entirely. On success, each operation's
// duration is added to the tally for its chosen work center before the next operation
// is considered, so earlier operations bias later ones within the same run.
// NoEligibleWorkCenter failures are recorded as a conflict on the operation rather
// than aborting the batch (§7).
func (s *Selector) SelectWorkCentersForOperations(ctx context.Context, ops []*entities.ScheduledOperation) error {
	s.tally = make(map[entities.WorkCenterID]float64)

	sorted := make([]*entities.ScheduledOperation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartDate.IsZero() != b.StartDate.IsZero() {
			return b.StartDate.IsZero() // non-zero sorts before zero ("nulls last")
		}
		return a.StartDate.Before(b.StartDate)
	})

	for _, op := range sorted {
		if op.Operation.Type == entities.Outside {
			continue
		}

		if op.Operation.Pinned() && op.WorkCenterID != nil {
			s.tally[*op.WorkCenterID] += op.DurationHours
			continue
		}

		wc, err := s.SelectWorkCenter(ctx, op.Operation.ProcessID, op.StartDate)
		if err != nil {
			op.HasConflict = true
			op.ConflictReason = err.Error()
			continue
		}

		op.WorkCenterID = &wc
		s.tally[wc] += op.DurationHours
	}

	return nil
}
