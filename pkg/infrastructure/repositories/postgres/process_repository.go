package postgres

import (
	"context"
	"database/sql"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// ProcessRepository reads process definitions from "processes" joined with
// "process_work_centers".
type ProcessRepository struct {
	db *Database
}

// NewProcessRepository wraps db for process storage.
func NewProcessRepository(db *Database) *ProcessRepository {
	return &ProcessRepository{db: db}
}

var _ repositories.ProcessRepository = (*ProcessRepository)(nil)

// GetProcess returns the process definition for companyID/processID.
func (r *ProcessRepository) GetProcess(ctx context.Context, companyID string, processID entities.ProcessID) (*entities.Process, error) {
	processes, err := r.listProcesses(ctx, companyID, &processID)
	if err != nil {
		return nil, err
	}
	if len(processes) == 0 {
		return nil, schederrors.New(schederrors.NotFound, "postgres.ProcessRepository.GetProcess", nil)
	}
	return &processes[0], nil
}

// ListProcesses returns every process defined for companyID, ordered by id.
func (r *ProcessRepository) ListProcesses(ctx context.Context, companyID string) ([]entities.Process, error) {
	return r.listProcesses(ctx, companyID, nil)
}

func (r *ProcessRepository) listProcesses(ctx context.Context, companyID string, only *entities.ProcessID) ([]entities.Process, error) {
	query := `
		SELECT p.id, pwc.work_center_id
		FROM processes p
		LEFT JOIN process_work_centers pwc ON pwc.process_id = p.id
		WHERE p.company_id = $1
	`
	args := []any{companyID}
	if only != nil {
		query += " AND p.id = $2"
		args = append(args, *only)
	}
	query += " ORDER BY p.id, pwc.position"

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.ProcessRepository.listProcesses", err)
	}
	defer rows.Close()

	byID := make(map[entities.ProcessID]*entities.Process)
	var order []entities.ProcessID

	for rows.Next() {
		var pid string
		var wc sql.NullString
		if err := rows.Scan(&pid, &wc); err != nil {
			return nil, schederrors.New(schederrors.StorageError, "postgres.ProcessRepository.listProcesses", err)
		}
		processID := entities.ProcessID(pid)
		p, ok := byID[processID]
		if !ok {
			p = &entities.Process{ID: processID}
			byID[processID] = p
			order = append(order, processID)
		}
		if wc.Valid {
			p.WorkCenterIDs = append(p.WorkCenterIDs, entities.WorkCenterID(wc.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.ProcessRepository.listProcesses", err)
	}

	out := make([]entities.Process, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}
