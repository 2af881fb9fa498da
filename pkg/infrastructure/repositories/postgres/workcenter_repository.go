package postgres

import (
	"context"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// WorkCenterRepository reads from the "work_centers" table.
type WorkCenterRepository struct {
	db *Database
}

// NewWorkCenterRepository wraps db for work-center storage.
func NewWorkCenterRepository(db *Database) *WorkCenterRepository {
	return &WorkCenterRepository{db: db}
}

var _ repositories.WorkCenterRepository = (*WorkCenterRepository)(nil)

// GetActiveWorkCenters returns active work centers at location for companyID,
// ordered by id.
func (r *WorkCenterRepository) GetActiveWorkCenters(ctx context.Context, companyID string, location string) ([]entities.WorkCenter, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, location, active
		FROM work_centers
		WHERE company_id = $1 AND location = $2 AND active = true
		ORDER BY id
	`, companyID, location)
	if err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.WorkCenterRepository.GetActiveWorkCenters", err)
	}
	defer rows.Close()

	var out []entities.WorkCenter
	for rows.Next() {
		var wc entities.WorkCenter
		if err := rows.Scan(&wc.ID, &wc.Location, &wc.Active); err != nil {
			return nil, schederrors.New(schederrors.StorageError, "postgres.WorkCenterRepository.GetActiveWorkCenters", err)
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}
