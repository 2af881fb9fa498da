package memory

import (
	"context"
	"sync"

	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/domain/repositories"
)

// WorkCenterRepository stores work centers per company, in declared order.
type WorkCenterRepository struct {
	mu          sync.RWMutex
	workCenters map[string][]entities.WorkCenter
}

// NewWorkCenterRepository creates an empty in-memory work-center repository.
func NewWorkCenterRepository() *WorkCenterRepository {
	return &WorkCenterRepository{workCenters: make(map[string][]entities.WorkCenter)}
}

var _ repositories.WorkCenterRepository = (*WorkCenterRepository)(nil)

// AddWorkCenter registers a work center under companyID, appended to declared order.
func (r *WorkCenterRepository) AddWorkCenter(companyID string, wc entities.WorkCenter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workCenters[companyID] = append(r.workCenters[companyID], wc)
}

// GetActiveWorkCenters returns active work centers at location for companyID, in
// declared order.
func (r *WorkCenterRepository) GetActiveWorkCenters(ctx context.Context, companyID string, location string) ([]entities.WorkCenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entities.WorkCenter
	for _, wc := range r.workCenters[companyID] {
		if wc.Active && wc.Location == location {
			out = append(out, wc)
		}
	}
	return out, nil
}
