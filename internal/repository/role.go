package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/model"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) WithTx(tx *gorm.DB) *RoleRepository {
	return &RoleRepository{db: tx}
}

// GetByName returns the role with its permissions
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "RoleGetByName")

	start := time.Now()
	var role model.Role

	result := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).
		First(&role)

	if result.Error != nil {
		logger.WarnWithContext(ctx, "Role lookup failed").
			String("role", name).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Role retrieved").
		String("role", name).
		Int("permissions", len(role.Permissions)).
		Duration(time.Since(start)).
		Log()

	return &role, nil
}
