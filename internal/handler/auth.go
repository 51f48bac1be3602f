// internal/handler/auth.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginResponse struct {
	BaseResponse
	Admin *model.Admin `json:"admin,omitempty"`
	Token string       `json:"token,omitempty"`
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			// Same response for unknown email and wrong password
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Login error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		BaseResponse: BaseResponse{Ok: true},
		Admin:        output.Admin,
		Token:        output.Token,
	})
}
