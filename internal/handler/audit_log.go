// internal/handler/audit_log.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/opsarc/tenantd/internal/middleware"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/repository"
)

// AuditLogHandler serves the lifecycle audit trail. Queries are always
// scoped to the caller's own organization.
type AuditLogHandler struct {
	auditRepo *repository.AuditLogRepository
}

func NewAuditLogHandler(auditRepo *repository.AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{
		auditRepo: auditRepo,
	}
}

type AuditLogsResponse struct {
	BaseResponse
	Logs  []model.AuditLog `json:"logs"`
	Total int64            `json:"total"`
}

func (h *AuditLogHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller := middleware.ClaimsFromContext(r.Context())
	if caller == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := repository.QueryParams{
		OrganizationName: caller.OrganizationName,
	}

	if action := r.URL.Query().Get("action"); action != "" {
		params.Action = action
	}

	if startTimeStr := r.URL.Query().Get("start_time"); startTimeStr != "" {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err == nil {
			params.StartTime = startTime
		}
	}

	if endTimeStr := r.URL.Query().Get("end_time"); endTimeStr != "" {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err == nil {
			params.EndTime = endTime
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	logs, total, err := h.auditRepo.Query(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "Audit log query error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, AuditLogsResponse{
		BaseResponse: BaseResponse{Ok: true},
		Logs:         logs,
		Total:        total,
	})
}
