package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/opsched/pkg/domain/entities"
)

func TestProcessRepository_AddAndListProcesses(t *testing.T) {
	repo := NewProcessRepository()
	repo.AddProcess("CO-A", entities.Process{ID: "WELD", WorkCenterIDs: []entities.WorkCenterID{"WC-1"}})
	repo.AddProcess("CO-A", entities.Process{ID: "PAINT", WorkCenterIDs: []entities.WorkCenterID{"WC-2"}})
	repo.AddProcess("CO-B", entities.Process{ID: "WELD", WorkCenterIDs: []entities.WorkCenterID{"WC-3"}})

	got, err := repo.ListProcesses(context.Background(), "CO-A")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, entities.ProcessID("WELD"), got[0].ID)
	assert.Equal(t, entities.ProcessID("PAINT"), got[1].ID)
}

func TestProcessRepository_GetProcess(t *testing.T) {
	repo := NewProcessRepository()
	repo.AddProcess("CO", entities.Process{ID: "WELD", WorkCenterIDs: []entities.WorkCenterID{"WC-1"}})

	got, err := repo.GetProcess(context.Background(), "CO", "WELD")
	require.NoError(t, err)
	assert.Equal(t, entities.ProcessID("WELD"), got.ID)
}

func TestProcessRepository_GetProcess_NotFound(t *testing.T) {
	repo := NewProcessRepository()
	_, err := repo.GetProcess(context.Background(), "CO", "UNKNOWN")
	assert.Error(t, err)
}
