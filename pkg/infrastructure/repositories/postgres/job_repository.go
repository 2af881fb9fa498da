package postgres

import (
	"context"
	"database/sql"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// JobRepository reads from the "jobs" table.
type JobRepository struct {
	db *Database
}

// NewJobRepository wraps db for job header storage.
func NewJobRepository(db *Database) *JobRepository {
	return &JobRepository{db: db}
}

var _ repositories.JobRepository = (*JobRepository)(nil)

// GetJobHeader returns the header row for companyID/jobID.
func (r *JobRepository) GetJobHeader(ctx context.Context, companyID string, jobID entities.JobID) (*entities.JobHeader, error) {
	var h entities.JobHeader
	var dueDate, startDate sql.NullTime
	var jobPriority sql.NullInt64
	var deadlineType int

	err := r.db.conn.QueryRowContext(ctx, `
		SELECT job_id, company_id, location, due_date, start_date, job_priority, deadline_type
		FROM jobs
		WHERE company_id = $1 AND job_id = $2
	`, companyID, jobID).Scan(&h.JobID, &h.CompanyID, &h.Location, &dueDate, &startDate, &jobPriority, &deadlineType)

	if err == sql.ErrNoRows {
		return nil, schederrors.New(schederrors.NotFound, "postgres.JobRepository.GetJobHeader", nil)
	}
	if err != nil {
		return nil, schederrors.New(schederrors.StorageError, "postgres.JobRepository.GetJobHeader", err)
	}

	if dueDate.Valid {
		h.DueDate = &dueDate.Time
	}
	if startDate.Valid {
		h.StartDate = &startDate.Time
	}
	if jobPriority.Valid {
		p := int(jobPriority.Int64)
		h.JobPriority = &p
	}
	h.DeadlineType = entities.DeadlineType(deadlineType)

	return &h, nil
}
