// internal/service/auth.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/opsarc/tenantd/internal/audit"
	"github.com/opsarc/tenantd/internal/auth"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/model"
	"github.com/opsarc/tenantd/internal/repository"
)

// AuthService issues and verifies admin credentials.
type AuthService struct {
	adminRepo      repository.AdminRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	auditLogger    audit.Logger
	validate       *validator.Validate
}

func NewAuthService(
	adminRepo repository.AdminRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	auditLogger audit.Logger,
) *AuthService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &AuthService{
		adminRepo:      adminRepo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		auditLogger:    auditLogger,
		validate:       validator.New(),
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	Admin *model.Admin `json:"admin"`
	Token string       `json:"token"`
}

// Login verifies the admin's password and issues a bearer token. Unknown
// email and wrong password both collapse to ErrUnauthorized so the
// response never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	admin, err := s.adminRepo.FindByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if !s.passwordHasher.Verify(input.Password, admin.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.tokenManager.Generate(admin.ID.String(), admin.Email, admin.OrganizationName)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	s.auditLogger.LogAdminLogin(ctx, admin.OrganizationName, admin.Email)

	return &LoginOutput{
		Admin: admin,
		Token: token,
	}, nil
}

// Authenticate validates a bearer token and returns the asserted identity.
// Any validation failure collapses to ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*auth.Claims, error) {
	claims, err := s.tokenManager.Validate(rawToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// AuthorizeOwnOrg gates mutations to the caller's own organization. The
// comparison is case-insensitive, matching the directory's uniqueness rule.
func AuthorizeOwnOrg(caller *auth.Claims, targetOrgName string) error {
	if caller == nil {
		return domain.ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(caller.OrganizationName), strings.TrimSpace(targetOrgName)) {
		return domain.ErrForbidden
	}
	return nil
}
