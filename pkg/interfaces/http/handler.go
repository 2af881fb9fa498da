package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vsinha/opsched/pkg/application/services/engine"
	schederrors "github.com/vsinha/opsched/pkg/domain/errors"
)

// Handler exposes the Engine over HTTP.
type Handler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewHandler wraps eng for HTTP serving. A nil logger discards all adapter logging.
func NewHandler(eng *engine.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: eng, logger: logger}
}

// RegisterRoutes mounts the scheduling endpoint on router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/companies/{companyId}/jobs/{jobId}/schedule", h.Schedule).Methods(http.MethodPost, http.MethodOptions)
}

// scheduleRequest is the JSON body of a schedule request (§6).
type scheduleRequest struct {
	UserID    string `json:"userId"`
	Mode      string `json:"mode"`
	Direction string `json:"direction"`
}

// Schedule runs the Engine for the job named by the URL and returns its Result.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	vars := mux.Vars(r)

	var body scheduleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, requestID, schederrors.New(schederrors.InvalidInput, "http.Schedule", err))
			return
		}
	}
	defer r.Body.Close()

	req := engine.Request{
		JobID:     vars["jobId"],
		CompanyID: vars["companyId"],
		UserID:    body.UserID,
		Mode:      engine.Mode(body.Mode),
		Direction: engine.Direction(body.Direction),
	}

	h.logger.Info("schedule request received",
		zap.String("request_id", requestID), zap.String("job_id", req.JobID), zap.String("company_id", req.CompanyID))

	result, err := h.engine.Run(r.Context(), req)
	if err != nil {
		h.writeError(w, requestID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) writeError(w http.ResponseWriter, requestID string, err error) {
	status := http.StatusInternalServerError
	switch {
	case schederrors.Is(err, schederrors.InvalidInput):
		status = http.StatusBadRequest
	case schederrors.Is(err, schederrors.NotFound):
		status = http.StatusNotFound
	case schederrors.Is(err, schederrors.CycleDetected), schederrors.Is(err, schederrors.NoEligibleWorkCenter):
		status = http.StatusUnprocessableEntity
	}

	h.logger.Error("schedule request failed", zap.String("request_id", requestID), zap.Error(err))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": err.Error()})
}
