package service

import (
	"testing"

	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationService_Resolve(t *testing.T) {
	s := newTestServices(t)
	registered := registerUser(t, s, "alice")

	user, err := s.authz.Resolve(t.Context(), registered.ID)
	require.NoError(t, err)
	assert.True(t, HasPermission(user, "lead", "read"))
	assert.True(t, HasPermission(user, "blog", "read"))
	assert.False(t, HasPermission(user, "lead", "delete"))

	err = s.authz.Authorize(user, "lead", "delete")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Equal(t, "Missing permission: lead:delete", apperrors.GetErrorMessage(err))
	assert.NoError(t, s.authz.Authorize(user, "lead", "read"))

	_, err = s.authz.Resolve(t.Context(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestHasPermission_UnionAcrossRoles(t *testing.T) {
	user := &model.User{Roles: []model.Role{
		{Name: "reader", Permissions: []model.Permission{{Module: "lead", Name: "read"}}},
		{Name: "writer", Permissions: []model.Permission{{Module: "blog", Name: "create"}}},
	}}

	assert.True(t, HasPermission(user, "lead", "read"))
	assert.True(t, HasPermission(user, "blog", "create"))
	assert.False(t, HasPermission(user, "blog", "delete"))
	assert.False(t, HasPermission(nil, "lead", "read"))
}

func TestToUserResponse(t *testing.T) {
	s := newTestServices(t)
	user := registerUser(t, s, "alice")

	res := ToUserResponse(user)
	assert.Equal(t, user.ID, res.ID)
	require.Len(t, res.Roles, 1)
	assert.Equal(t, model.RoleUser, res.Roles[0].Name)
	assert.Len(t, res.Roles[0].Permissions, 2)
}
