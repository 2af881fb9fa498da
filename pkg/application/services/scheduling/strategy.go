// Package scheduling implements the Scheduling Strategy (§4.6): backward and forward
// date propagation over the dependency DAG, honoring lead times. The two concrete
// strategies share one contract and are picked by a direction enum — tagged-variant
// dispatch, per §9, rather than a dynamic registry.
package scheduling

import (
	"time"

	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/domain/services/calendar"
	"github.com/vsinha/opsched/pkg/domain/services/duration"
)

// DefaultBackwardPriority and DefaultForwardPriority are the placeholder priorities
// assigned during scheduling, before the Priority Assigner (§4.8) overwrites them.
const (
	DefaultBackwardPriority = 99
	DefaultForwardPriority  = 1
)

// Strategy propagates dates across the dependency graph from an anchor date (§4.6).
// withPreviousAnchors maps a With-Previous operation to the rank-mate whose dates it
// must copy exactly (assembly.WithPreviousAnchors) — the dependency graph itself
// carries no edge between rank-mates, so this pairing travels alongside it.
type Strategy interface {
	Schedule(
		ops []entities.Operation,
		opsByID map[entities.OperationID]entities.Operation,
		graph *dependencygraph.Graph,
		anchor time.Time,
		cal calendar.Provider,
		withPreviousAnchors map[entities.OperationID]entities.OperationID,
	) (map[entities.OperationID]*entities.ScheduledOperation, error)
}

// ScheduleDirection selects which way a job is scheduled (§6): Backward from the job
// due date, or Forward from the job start date. This is distinct from
// entities.Direction, which names which end of the DAG a topological sort
// starts from — the two happen to coincide (Backward walks the DAG in
// entities.Reverse order, Forward in entities.Forward order) but are
// conceptually different axes, so they are kept as separate types.
type ScheduleDirection int

const (
	Backward ScheduleDirection = iota
	ForwardSchedule
)

// ForDirection returns the concrete Strategy for a scheduling direction.
func ForDirection(direction ScheduleDirection) Strategy {
	if direction == ForwardSchedule {
		return ForwardStrategy{}
	}
	return BackwardStrategy{}
}

// anchorFor returns the operation id a With-Previous operation copies its dates from
// (§9 open question, resolved in DESIGN.md): its rank-mate per withPreviousAnchors.
func anchorFor(id entities.OperationID, withPreviousAnchors map[entities.OperationID]entities.OperationID) (entities.OperationID, bool) {
	anchorID, ok := withPreviousAnchors[id]
	return anchorID, ok
}

// pinnedSchedule returns a ScheduledOperation built directly from an operation's
// preserved dates for In-Progress/Paused operations, which keep their existing
// StartDate/DueDate/WorkCenterID across a reschedule (§4.9).
func pinnedSchedule(op entities.Operation, defaultPriority int) *entities.ScheduledOperation {
	var startDate, dueDate time.Time
	if op.ExistingStartDate != nil {
		startDate = *op.ExistingStartDate
	}
	if op.ExistingDueDate != nil {
		dueDate = *op.ExistingDueDate
	} else {
		dueDate = startDate
	}

	hours, days := duration.Duration(op)
	priority := defaultPriority
	if op.JobPriority != nil {
		priority = *op.JobPriority
	}

	return &entities.ScheduledOperation{
		Operation:     op,
		StartDate:     startDate,
		DueDate:       dueDate,
		WorkCenterID:  op.WorkCenterID,
		Priority:      priority,
		DurationHours: hours,
		DurationDays:  days,
	}
}
