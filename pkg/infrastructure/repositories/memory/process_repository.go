package memory

import (
	"context"
	"sync"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// ProcessRepository stores process definitions per company, in declared order.
type ProcessRepository struct {
	mu        sync.RWMutex
	processes map[string][]entities.Process
}

// NewProcessRepository creates an empty in-memory process repository.
func NewProcessRepository() *ProcessRepository {
	return &ProcessRepository{processes: make(map[string][]entities.Process)}
}

var _ repositories.ProcessRepository = (*ProcessRepository)(nil)

// AddProcess registers a process under companyID, appended to declared order.
func (r *ProcessRepository) AddProcess(companyID string, p entities.Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processes[companyID] = append(r.processes[companyID], p)
}

// GetProcess returns the process definition for companyID/processID.
func (r *ProcessRepository) GetProcess(ctx context.Context, companyID string, processID entities.ProcessID) (*entities.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.processes[companyID] {
		if p.ID == processID {
			out := p
			return &out, nil
		}
	}
	return nil, schederrors.New(schederrors.NotFound, "memory.ProcessRepository.GetProcess", nil)
}

// ListProcesses returns every process registered for companyID, in declared order.
func (r *ProcessRepository) ListProcesses(ctx context.Context, companyID string) ([]entities.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Process, len(r.processes[companyID]))
	copy(out, r.processes[companyID])
	return out, nil
}
