// Package memory implements every storage-port interface (pkg/domain/repositories)
// over plain Go maps guarded by a mutex, for tests and the demo binary. Grounded on
// the teacher's memory.BOMRepository/ItemRepository: a slice-or-map store plus an
// index map, a NewXxxRepository constructor, and a `var _ repositories.Xxx = (*Xxx)(nil)`
// compliance check in every file.
package memory

import (
	"context"
	"sync"

	"github.com/vsinha/opsched/pkg/domain/entities"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// AssemblyRepository stores method trees keyed by the job that owns them.
type AssemblyRepository struct {
	mu    sync.RWMutex
	roots map[entities.JobID]*entities.MakeMethod
}

// NewAssemblyRepository creates an empty in-memory assembly repository.
func NewAssemblyRepository() *AssemblyRepository {
	return &AssemblyRepository{roots: make(map[entities.JobID]*entities.MakeMethod)}
}

var _ repositories.AssemblyRepository = (*AssemblyRepository)(nil)

// SetRootMakeMethod registers the top assembly for a job, overwriting any previous
// tree for that job.
func (r *AssemblyRepository) SetRootMakeMethod(jobID entities.JobID, root *entities.MakeMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[jobID] = root
}

// GetRootMakeMethod returns the top assembly for jobID.
func (r *AssemblyRepository) GetRootMakeMethod(ctx context.Context, jobID entities.JobID) (*entities.MakeMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root, ok := r.roots[jobID]
	if !ok {
		return nil, schederrors.New(schederrors.NotFound, "memory.AssemblyRepository.GetRootMakeMethod", nil)
	}
	return root, nil
}
