package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/model"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to an open transaction
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// GetByID loads the user together with roles and their permissions
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "UserGetByID")

	logger.DebugWithContext(ctx, "Getting user by ID").
		String("user_id", id.String()).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("id = ?", id).
		First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			String("user_id", id.String()).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		String("user_id", id.String()).
		Int("roles", len(user.Roles)).
		Duration(duration).
		Log()

	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "UserGetByEmail")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("email = ?", email).
		First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "User not found by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved by email").
		String("user_id", user.ID.String()).
		Duration(duration).
		Log()

	return &user, nil
}

// ExistsByEmailOrUsername reports whether either identifier is already taken
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "UserExistsByEmailOrUsername")

	start := time.Now()
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check user existence").
			String("email", email).
			String("username", username).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

// Create inserts the user and links any roles already attached to it
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UserCreate")

	logger.DebugWithContext(ctx, "Creating user").
		String("username", user.Username).
		String("email", user.Email).
		Log()

	start := time.Now()
	err := r.db.WithContext(ctx).
		Omit("Roles.*").
		Create(user).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("user_id", user.ID.String()).
		Strings("roles", user.RoleNames()).
		Duration(duration).
		Log()

	return nil
}
