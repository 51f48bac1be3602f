// internal/handler/organization.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/middleware"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/service"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

type OrganizationResponse struct {
	BaseResponse
	Organization *model.Organization `json:"organization"`
}

func (h *OrganizationHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	org, err := h.orgService.CreateOrganization(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Organization creation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrDuplicateName):
			respondWithError(w, http.StatusBadRequest, "Organization name already exists")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondWithError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, OrganizationResponse{
		BaseResponse: BaseResponse{Ok: true},
		Organization: org,
	})
}

func (h *OrganizationHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("organization_name")

	org, err := h.orgService.GetOrganization(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Organization lookup error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, OrganizationResponse{
		BaseResponse: BaseResponse{Ok: true},
		Organization: org,
	})
}

func (h *OrganizationHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var input service.RenameOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	caller := middleware.ClaimsFromContext(r.Context())

	org, err := h.orgService.RenameOrganization(r.Context(), input, caller)
	if err != nil {
		slog.ErrorContext(r.Context(), "Organization rename error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "You can only update your own organization")
		case errors.Is(err, domain.ErrDuplicateName):
			respondWithError(w, http.StatusBadRequest, "New organization name already exists")
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrUnauthorized):
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, OrganizationResponse{
		BaseResponse: BaseResponse{Ok: true},
		Organization: org,
	})
}

func (h *OrganizationHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	var input service.DeleteOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	caller := middleware.ClaimsFromContext(r.Context())

	if err := h.orgService.DeleteOrganization(r.Context(), input, caller); err != nil {
		slog.ErrorContext(r.Context(), "Organization delete error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "You can only delete your own organization")
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrUnauthorized):
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Organization " + input.OrganizationName + " deleted",
	})
}
