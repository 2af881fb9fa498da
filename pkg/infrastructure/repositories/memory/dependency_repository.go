package memory

import (
	"context"
	"sync"

	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// DependencyRepository stores the most recently replaced dependency edge set per job.
type DependencyRepository struct {
	mu    sync.RWMutex
	edges map[entities.JobID]map[entities.OperationID]*entities.DependencyNode
}

// NewDependencyRepository creates an empty in-memory dependency repository.
func NewDependencyRepository() *DependencyRepository {
	return &DependencyRepository{edges: make(map[entities.JobID]map[entities.OperationID]*entities.DependencyNode)}
}

var _ repositories.DependencyRepository = (*DependencyRepository)(nil)

// ReplaceDependencies overwrites the stored edge set for jobID.
func (r *DependencyRepository) ReplaceDependencies(ctx context.Context, companyID string, jobID entities.JobID, nodes map[entities.OperationID]*entities.DependencyNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.edges[jobID] = nodes
	return nil
}

// Nodes returns the last dependency set stored for jobID, or nil if none.
func (r *DependencyRepository) Nodes(jobID entities.JobID) map[entities.OperationID]*entities.DependencyNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.edges[jobID]
}
