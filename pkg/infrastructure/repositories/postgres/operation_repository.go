package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
	"github.com/vsinha/opsched/pkg/domain/services/duration"
)

// OperationRepository persists operations in the "operations" table.
type OperationRepository struct {
	db *Database
}

// NewOperationRepository wraps db for operation storage.
func NewOperationRepository(db *Database) *OperationRepository {
	return &OperationRepository{db: db}
}

var _ repositories.OperationRepository = (*OperationRepository)(nil)

// GetOperations returns non-terminal operations for a make method.
func (r *OperationRepository) GetOperations(ctx context.Context, makeMethodID entities.MakeMethodID) ([]entities.Operation, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, job_id, make_method_id, "order", operation_order, process_id, work_center_id,
		       consumes_make_method_id, setup_time, setup_unit, labor_time, labor_unit,
		       machine_time, machine_unit, quantity, lead_time_days, existing_start_date,
		       existing_due_date, status, type, job_priority, deadline_type
		FROM operations
		WHERE make_method_id = $1 AND status NOT IN ($2, $3)
		ORDER BY "order"
	`, makeMethodID, entities.Done, entities.Canceled)
	if err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.OperationRepository.GetOperations", err)
	}
	defer rows.Close()

	var out []entities.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, schederrors.New(schederrors.StorageError, "postgres.OperationRepository.GetOperations", err)
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// UpdateOperations writes back scheduling results for ops in a single transaction.
func (r *OperationRepository) UpdateOperations(ctx context.Context, companyID string, ops []entities.ScheduledOperation) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.OperationRepository.UpdateOperations", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE operations
		SET existing_start_date = $1, existing_due_date = $2, work_center_id = $3, job_priority = $4
		WHERE id = $5 AND job_id IN (SELECT job_id FROM jobs WHERE company_id = $6)
	`)
	if err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.OperationRepository.UpdateOperations", err)
	}
	defer stmt.Close()

	for _, so := range ops {
		var wc *string
		if so.WorkCenterID != nil {
			s := string(*so.WorkCenterID)
			wc = &s
		}
		if _, err := stmt.ExecContext(ctx, so.StartDate, so.DueDate, wc, so.Priority, so.ID(), companyID); err != nil {
			return schederrors.New(schederrors.StorageError, "postgres.OperationRepository.UpdateOperations", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return schederrors.New(schederrors.StorageError, "postgres.OperationRepository.UpdateOperations", err)
	}
	return nil
}

// LoadForWorkCenter sums the duration (§4.1: setup + max(labor, machine), converted
// through the rate-unit table and scaled by quantity) of every non-terminal operation
// already assigned to workCenterID with a start date on or before beforeDate. The
// conversion happens in Go via duration.Duration, matching the memory adapter, since
// the rate-unit table is not expressible as a plain SQL sum over labor_time alone.
func (r *OperationRepository) LoadForWorkCenter(ctx context.Context, companyID string, workCenterID entities.WorkCenterID, beforeDate time.Time) (float64, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT o.id, o.job_id, o.make_method_id, o."order", o.operation_order, o.process_id, o.work_center_id,
		       o.consumes_make_method_id, o.setup_time, o.setup_unit, o.labor_time, o.labor_unit,
		       o.machine_time, o.machine_unit, o.quantity, o.lead_time_days, o.existing_start_date,
		       o.existing_due_date, o.status, o.type, o.job_priority, o.deadline_type
		FROM operations o
		JOIN jobs j ON j.job_id = o.job_id
		WHERE j.company_id = $1
		  AND o.work_center_id = $2
		  AND o.status NOT IN ($3, $4)
		  AND (o.existing_start_date IS NULL OR o.existing_start_date <= $5)
	`, companyID, workCenterID, entities.Done, entities.Canceled, beforeDate)
	if err != nil {
		return 0, schederrors.New(schederrors.StorageError, "postgres.OperationRepository.LoadForWorkCenter", err)
	}
	defer rows.Close()

	var total float64
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return 0, schederrors.New(schederrors.StorageError, "postgres.OperationRepository.LoadForWorkCenter", err)
		}
		hours, _ := duration.Duration(op)
		total += hours
	}
	if err := rows.Err(); err != nil {
		return 0, schederrors.New(schederrors.StorageError, "postgres.OperationRepository.LoadForWorkCenter", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(rs rowScanner) (entities.Operation, error) {
	var op entities.Operation
	var workCenterID, consumesMethodID sql.NullString
	var quantity sql.NullFloat64
	var leadTimeDays sql.NullInt64
	var setupTime, laborTime, machineTime sql.NullFloat64
	var setupUnit, laborUnit, machineUnit int
	var existingStart, existingDue sql.NullTime
	var status, opType, order int
	var jobPriority, deadlineType sql.NullInt64

	if err := rs.Scan(
		&op.ID, &op.JobID, &op.MakeMethodID, &op.Order, &order, &op.ProcessID, &workCenterID,
		&consumesMethodID, &setupTime, &setupUnit, &laborTime, &laborUnit,
		&machineTime, &machineUnit, &quantity, &leadTimeDays, &existingStart,
		&existingDue, &status, &opType, &jobPriority, &deadlineType,
	); err != nil {
		return op, fmt.Errorf("scan operation: %w", err)
	}

	op.OperationOrder = entities.OperationOrder(order)
	op.Status = entities.OperationStatus(status)
	op.Type = entities.OperationType(opType)
	op.Setup = entities.TimeValue{Unit: entities.RateUnit(setupUnit)}
	op.Labor = entities.TimeValue{Unit: entities.RateUnit(laborUnit)}
	op.Machine = entities.TimeValue{Unit: entities.RateUnit(machineUnit)}
	if setupTime.Valid {
		op.Setup.Time = &setupTime.Float64
	}
	if laborTime.Valid {
		op.Labor.Time = &laborTime.Float64
	}
	if machineTime.Valid {
		op.Machine.Time = &machineTime.Float64
	}
	if workCenterID.Valid {
		wc := entities.WorkCenterID(workCenterID.String)
		op.WorkCenterID = &wc
	}
	if consumesMethodID.Valid {
		m := entities.MakeMethodID(consumesMethodID.String)
		op.ConsumesMakeMethodID = &m
	}
	if existingStart.Valid {
		op.ExistingStartDate = &existingStart.Time
	}
	if existingDue.Valid {
		op.ExistingDueDate = &existingDue.Time
	}
	if deadlineType.Valid {
		op.DeadlineType = entities.DeadlineType(deadlineType.Int64)
	}
	if jobPriority.Valid {
		p := int(jobPriority.Int64)
		op.JobPriority = &p
	}
	if quantity.Valid {
		op.Quantity = &quantity.Float64
	}
	if leadTimeDays.Valid {
		days := int(leadTimeDays.Int64)
		op.LeadTimeDays = &days
	}

	return op, nil
}
