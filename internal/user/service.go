package user

import (
	"context"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/pkg/logger"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// UpdateRoleDTO is the admin role-change payload. Nil IsActive keeps the
// current activation state.
type UpdateRoleDTO struct {
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

func (d UpdateRoleDTO) Validate() error {
	switch d.Role {
	case auth.RoleColaborador, auth.RoleGestor, auth.RoleAssessorDiretor, auth.RoleDesenvolvedor, auth.RoleVisitante:
		return nil
	}
	return ValidationError{Msg: "role must be one of COLABORADOR, GESTOR, ASSESSOR_DIRETOR, DESENVOLVEDOR, VISITANTE"}
}

type ServiceAPI interface {
	ListUsers(ctx context.Context) ([]*auth.User, error)
	UpdateRole(ctx context.Context, admin *auth.User, userID int64, dto UpdateRoleDTO) (*auth.User, error)
}

type RepositoryAPI interface {
	ListUsers(ctx context.Context) ([]*auth.User, error)
	UpdateRole(ctx context.Context, userID int64, role string, isActive *bool) (*auth.User, error)
}

type Service struct {
	repo RepositoryAPI
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListUsers(ctx context.Context) ([]*auth.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		logger.From(ctx).Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// UpdateRole changes another account's role. Admins cannot touch their own
// account, which keeps at least one developer able to undo mistakes.
func (s *Service) UpdateRole(ctx context.Context, admin *auth.User, userID int64, dto UpdateRoleDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if admin.ID == userID {
		return nil, internal.NewValidationError(
			"administrators cannot change their own role",
			internal.ErrCodeValidationFailed)
	}

	updated, err := s.repo.UpdateRole(ctx, userID, dto.Role, dto.IsActive)
	if err != nil {
		return nil, err
	}

	logger.From(ctx).Info("user role updated",
		"user_id", userID,
		"role", dto.Role,
		"updated_by", admin.ID)
	return updated, nil
}
