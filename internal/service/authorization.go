package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorizationService resolves users with their effective permissions
type AuthorizationService struct {
	repoUser *repository.UserRepository
}

func NewAuthorizationService(repoUser *repository.UserRepository) *AuthorizationService {
	return &AuthorizationService{repoUser: repoUser}
}

// Resolve loads the user, its roles and every role's permissions in one fetch
func (s *AuthorizationService) Resolve(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Resolve")

	user, err := s.repoUser.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.WarnWithContext(ctx, "Token subject does not exist").
			String("user_id", userID.String()).
			Log()
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return user, nil
}

// HasPermission is a flat membership test over the union of all role permissions
func HasPermission(user *model.User, module, action string) bool {
	if user == nil {
		return false
	}
	_, ok := user.PermissionCodes()[model.PermissionCode(module, action)]
	return ok
}

// Authorize returns a forbidden error naming the missing permission
func (s *AuthorizationService) Authorize(user *model.User, module, action string) error {
	if HasPermission(user, module, action) {
		return nil
	}
	return apperrors.NewForbidden(model.PermissionCode(module, action))
}

// ToUserResponse maps a resolved user to its public shape
func ToUserResponse(user *model.User) dto.UserResponse {
	roles := make([]dto.RoleResponse, 0, len(user.Roles))
	for _, role := range user.Roles {
		perms := make([]dto.PermissionResponse, 0, len(role.Permissions))
		for _, perm := range role.Permissions {
			perms = append(perms, dto.PermissionResponse{Module: perm.Module, Name: perm.Name})
		}
		roles = append(roles, dto.RoleResponse{Name: role.Name, Permissions: perms})
	}

	return dto.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsActive:   user.IsActive,
		ProfilePic: user.ProfilePic,
		Roles:      roles,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
