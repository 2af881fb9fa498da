package memory

import (
	"context"
	"sync"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// JobRepository stores job headers keyed by job id.
type JobRepository struct {
	mu      sync.RWMutex
	headers map[entities.JobID]entities.JobHeader
}

// NewJobRepository creates an empty in-memory job repository.
func NewJobRepository() *JobRepository {
	return &JobRepository{headers: make(map[entities.JobID]entities.JobHeader)}
}

var _ repositories.JobRepository = (*JobRepository)(nil)

// AddJobHeader registers a job header.
func (r *JobRepository) AddJobHeader(h entities.JobHeader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers[h.JobID] = h
}

// GetJobHeader returns the header for companyID/jobID.
func (r *JobRepository) GetJobHeader(ctx context.Context, companyID string, jobID entities.JobID) (*entities.JobHeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.headers[jobID]
	if !ok || h.CompanyID != companyID {
		return nil, schederrors.New(schederrors.NotFound, "memory.JobRepository.GetJobHeader", nil)
	}
	out := h
	return &out, nil
}
