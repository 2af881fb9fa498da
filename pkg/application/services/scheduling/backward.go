package scheduling

import (
	"fmt"
	"time"

	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/domain/services/calendar"
	"github.com/vsinha/opsched/pkg/domain/services/duration"
)

// BackwardStrategy schedules from the job due date, walking the DAG leaves-first and
// computing each operation's due date from its already-scheduled dependents (§4.6).
type BackwardStrategy struct{}

func (BackwardStrategy) Schedule(
	ops []entities.Operation,
	opsByID map[entities.OperationID]entities.Operation,
	graph *dependencygraph.Graph,
	anchor time.Time,
	cal calendar.Provider,
	withPreviousAnchors map[entities.OperationID]entities.OperationID,
) (map[entities.OperationID]*entities.ScheduledOperation, error) {
	order, err := graph.TopologicalSort(entities.Reverse)
	if err != nil {
		return nil, err
	}

	today := calendar.CivilDate(calendar.Today())
	scheduled := make(map[entities.OperationID]*entities.ScheduledOperation, len(order))

	for _, id := range order {
		op, ok := opsByID[id]
		if !ok {
			continue
		}

		if op.Pinned() && op.ExistingStartDate != nil {
			scheduled[id] = pinnedSchedule(op, DefaultBackwardPriority)
			continue
		}

		node := graph.Node(id)
		hours, days := duration.Duration(op)

		dueDate := dueDateFor(op, node, scheduled, opsByID, anchor, cal)

		if op.OperationOrder == entities.WithPrevious {
			if predID, ok := anchorFor(id, withPreviousAnchors); ok {
				if pred, ok := scheduled[predID]; ok {
					priority := DefaultBackwardPriority
					if op.JobPriority != nil {
						priority = *op.JobPriority
					}
					scheduled[id] = &entities.ScheduledOperation{
						Operation:      op,
						StartDate:      pred.StartDate,
						DueDate:        pred.DueDate,
						Priority:       priority,
						DurationHours:  hours,
						DurationDays:   days,
						HasConflict:    pred.HasConflict,
						ConflictReason: pred.ConflictReason,
					}
					continue
				}
			}
		}

		// A duration of n business days spans n-1 business days between start and due
		// (inclusive counting, §8 invariant), so a 1-day operation starts and ends the
		// same day.
		startDate := calendar.SubtractBusinessDays(cal, dueDate, days-1)

		hasConflict := startDate.Before(today)
		reason := ""
		if hasConflict {
			reason = fmt.Sprintf("computed start date %s is before today %s",
				calendar.FormatISO(startDate), calendar.FormatISO(today))
		}

		scheduled[id] = &entities.ScheduledOperation{
			Operation:      op,
			StartDate:      startDate,
			DueDate:        dueDate,
			Priority:       DefaultBackwardPriority,
			DurationHours:  hours,
			DurationDays:   days,
			HasConflict:    hasConflict,
			ConflictReason: reason,
		}
	}

	return scheduled, nil
}

// dueDateFor computes the due date for an operation in backward scheduling (§4.6
// step 2): the earliest constraint among already-scheduled dependents, each reduced
// by that dependent's own lead time plus the one business day separating two
// back-to-back operations, or the anchor when there is no dependent or none has been
// scheduled yet.
func dueDateFor(
	op entities.Operation,
	node *entities.DependencyNode,
	scheduled map[entities.OperationID]*entities.ScheduledOperation,
	opsByID map[entities.OperationID]entities.Operation,
	anchor time.Time,
	cal calendar.Provider,
) time.Time {
	if node == nil || len(node.RequiredBy) == 0 {
		return anchor
	}

	var min time.Time
	found := false

	for _, depID := range node.RequiredBy {
		dep, ok := scheduled[depID]
		if !ok {
			continue
		}
		depOp := opsByID[depID]
		constraint := calendar.SubtractBusinessDays(cal, dep.StartDate, depOp.LeadTimeDaysOrZero()+1)
		if !found || constraint.Before(min) {
			min = constraint
			found = true
		}
	}

	if !found {
		return anchor
	}
	return min
}
