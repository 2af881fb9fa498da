package scheduling

import (
	"time"

	"github.com/vsinha/opsched/pkg/application/services/dependencygraph"
	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/domain/services/calendar"
	"github.com/vsinha/opsched/pkg/domain/services/duration"
)

// ForwardStrategy schedules from the job start date, walking the DAG roots-first and
// computing each operation's start date from its already-scheduled dependencies
// (§4.6). It performs no conflict detection — a forward schedule cannot violate
// "start in the past" by construction (§4.6, §9 open question).
type ForwardStrategy struct{}

func (ForwardStrategy) Schedule(
	ops []entities.Operation,
	opsByID map[entities.OperationID]entities.Operation,
	graph *dependencygraph.Graph,
	anchor time.Time,
	cal calendar.Provider,
	withPreviousAnchors map[entities.OperationID]entities.OperationID,
) (map[entities.OperationID]*entities.ScheduledOperation, error) {
	order, err := graph.TopologicalSort(entities.Forward)
	if err != nil {
		return nil, err
	}

	scheduled := make(map[entities.OperationID]*entities.ScheduledOperation, len(order))

	for _, id := range order {
		op, ok := opsByID[id]
		if !ok {
			continue
		}

		if op.Pinned() && op.ExistingStartDate != nil {
			scheduled[id] = pinnedSchedule(op, DefaultForwardPriority)
			continue
		}

		node := graph.Node(id)
		hours, days := duration.Duration(op)

		if op.OperationOrder == entities.WithPrevious {
			if predID, ok := anchorFor(id, withPreviousAnchors); ok {
				if pred, ok := scheduled[predID]; ok {
					priority := DefaultForwardPriority
					if op.JobPriority != nil {
						priority = *op.JobPriority
					}
					scheduled[id] = &entities.ScheduledOperation{
						Operation:     op,
						StartDate:     pred.StartDate,
						DueDate:       pred.DueDate,
						Priority:      priority,
						DurationHours: hours,
						DurationDays:  days,
					}
					continue
				}
			}
		}

		startDate := startDateFor(node, scheduled, anchor, op.LeadTimeDaysOrZero(), cal)
		// Symmetric with the backward strategy: a duration of n business days spans
		// n-1 business days between start and due (inclusive counting, §8 invariant).
		dueDate := calendar.AddBusinessDays(cal, startDate, days-1)

		scheduled[id] = &entities.ScheduledOperation{
			Operation:     op,
			StartDate:     startDate,
			DueDate:       dueDate,
			Priority:      DefaultForwardPriority,
			DurationHours: hours,
			DurationDays:  days,
		}
	}

	return scheduled, nil
}

// startDateFor computes the start date for an operation in forward scheduling: the
// latest due date among its already-scheduled dependencies, plus the operation's own
// lead time plus the one business day separating two back-to-back operations, or the
// anchor when there is no dependency or none has been scheduled yet (§4.6 step
// "symmetrically").
func startDateFor(
	node *entities.DependencyNode,
	scheduled map[entities.OperationID]*entities.ScheduledOperation,
	anchor time.Time,
	leadTimeDays int,
	cal calendar.Provider,
) time.Time {
	if node == nil || len(node.DependsOn) == 0 {
		return anchor
	}

	var max time.Time
	found := false

	for _, depID := range node.DependsOn {
		dep, ok := scheduled[depID]
		if !ok {
			continue
		}
		if !found || dep.DueDate.After(max) {
			max = dep.DueDate
			found = true
		}
	}

	if !found {
		return anchor
	}
	return calendar.AddBusinessDays(cal, max, leadTimeDays+1)
}
