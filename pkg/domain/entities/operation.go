package entities

import "time"

// OperationID uniquely identifies an operation within a job.
type OperationID string

// JobID identifies a production job.
type JobID string

// MakeMethodID identifies a node of the assembly tree.
type MakeMethodID string

// ProcessID identifies a required manufacturing capability.
type ProcessID string

// WorkCenterID identifies a physical resource.
type WorkCenterID string

// TimeValue is a raw time figure paired with the rate unit that scales it (§4.1).
type TimeValue struct {
	Time *float64
	Unit RateUnit
}

// Operation is the unit being scheduled (§3).
type Operation struct {
	ID             OperationID
	JobID          JobID
	MakeMethodID   MakeMethodID
	Order          int
	OperationOrder OperationOrder
	ProcessID      ProcessID
	WorkCenterID   *WorkCenterID

	// ConsumesMakeMethodID is the explicit link (§4.4) naming which child
	// make-method's material this operation consumes. Nil means no explicit link
	// exists, and the Assembly Handler falls back to gating the parent method's
	// rank-1 operations.
	ConsumesMakeMethodID *MakeMethodID

	Setup   TimeValue
	Labor   TimeValue
	Machine TimeValue

	Quantity *float64

	LeadTimeDays *int

	ExistingStartDate *time.Time
	ExistingDueDate   *time.Time

	Status OperationStatus
	Type   OperationType

	JobPriority  *int
	DeadlineType DeadlineType
}

// Excluded reports whether this operation must be skipped by the scheduler (§3
// invariant: Done/Canceled operations are excluded and never mutated).
func (o Operation) Excluded() bool {
	return o.Status.Terminal()
}

// Pinned reports whether this operation's dates/work-center must be preserved across a
// reschedule (§4.9).
func (o Operation) Pinned() bool {
	return o.Status.Pinned()
}

// QuantityOrDefault returns the operation quantity, defaulting to 1 when absent (§4.1,
// "Missing quantity defaults to 1").
func (o Operation) QuantityOrDefault() float64 {
	if o.Quantity == nil {
		return 1
	}
	return *o.Quantity
}

// LeadTimeDaysOrZero returns the configured lead time, defaulting to zero business
// days when absent.
func (o Operation) LeadTimeDaysOrZero() int {
	if o.LeadTimeDays == nil {
		return 0
	}
	return *o.LeadTimeDays
}

// MakeMethod is a node of the assembly tree (§3).
type MakeMethod struct {
	ID               MakeMethodID
	ParentMaterialID *MakeMethodID
	ItemID           string
	Children         []*MakeMethod
}

// IsRoot reports whether this method has no parent material — the job's top assembly.
func (m *MakeMethod) IsRoot() bool {
	return m.ParentMaterialID == nil
}

// WorkCenter is a physical resource bound to a location and process set (GLOSSARY).
type WorkCenter struct {
	ID       WorkCenterID
	Location string
	Active   bool
}

// Process is a capability that selects eligible work centers (GLOSSARY).
type Process struct {
	ID            ProcessID
	WorkCenterIDs []WorkCenterID // allowed work centers for this process, in declared order
}

// JobHeader carries the scheduling anchor and tie-break metadata for a job (§6).
type JobHeader struct {
	JobID        JobID
	CompanyID    string
	Location     string
	DueDate      *time.Time
	StartDate    *time.Time
	JobPriority  *int
	DeadlineType DeadlineType
}
