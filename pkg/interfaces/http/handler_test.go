package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/opsched/pkg/application/services/engine"
	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/infrastructure/repositories/memory"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	assemblyRepo := memory.NewAssemblyRepository()
	opRepo := memory.NewOperationRepository()
	depRepo := memory.NewDependencyRepository()
	jobRepo := memory.NewJobRepository()
	processRepo := memory.NewProcessRepository()
	wcRepo := memory.NewWorkCenterRepository()

	root := &entities.MakeMethod{ID: "M1", ItemID: "ASSY"}
	assemblyRepo.SetRootMakeMethod("J1", root)
	opRepo.AddOperation("CO", entities.Operation{
		ID: "10", MakeMethodID: "M1", Order: 10, ProcessID: "WELD", Status: entities.Ready,
	})
	processRepo.AddProcess("CO", entities.Process{ID: "WELD", WorkCenterIDs: []entities.WorkCenterID{"WC-1"}})
	wcRepo.AddWorkCenter("CO", entities.WorkCenter{ID: "WC-1", Location: "MAIN", Active: true})
	jobRepo.AddJobHeader(entities.JobHeader{JobID: "J1", CompanyID: "CO", Location: "MAIN"})

	eng := engine.New(assemblyRepo, opRepo, depRepo, jobRepo, processRepo, wcRepo)
	h := NewHandler(eng, nil)

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func TestSchedule_Success(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"userId": "u1", "mode": "initial", "direction": "backward"})
	req := httptest.NewRequest(http.MethodPost, "/companies/CO/jobs/J1/schedule", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var result engine.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.OperationsScheduled)
}

func TestSchedule_EmptyBodyMissingUserIDIs400(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/companies/CO/jobs/J1/schedule", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Missing userId fails validation (§6 requires it), so this should be a 400.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchedule_InvalidJSONBodyIs400(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/companies/CO/jobs/J1/schedule", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestSchedule_UnknownJobStillSucceeds(t *testing.T) {
	router := newTestRouter(t)

	reqBody, _ := json.Marshal(map[string]string{"userId": "u1"})
	req := httptest.NewRequest(http.MethodPost, "/companies/CO/jobs/NOPE/schedule", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
