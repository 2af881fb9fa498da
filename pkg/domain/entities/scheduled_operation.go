package entities

import "time"

// ScheduledOperation augments an Operation with the dates, resource, and priority
// resolved by the scheduler (§3). It is created by the Strategy, mutated by the
// Work-Center Selector and Priority Assigner, and discarded at persistence time.
type ScheduledOperation struct {
	Operation Operation

	StartDate time.Time
	DueDate   time.Time

	WorkCenterID *WorkCenterID
	Priority     int

	DurationHours float64
	DurationDays  int

	HasConflict    bool
	ConflictReason string
}

// ID is a convenience accessor mirroring the underlying operation's identity.
func (s *ScheduledOperation) ID() OperationID {
	return s.Operation.ID
}
