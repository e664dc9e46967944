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

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) WithTx(tx *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: tx}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "RefreshTokenCreate")

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			String("user_id", token.UserID.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Refresh token stored").
		String("user_id", token.UserID.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "RefreshTokenGetByToken")

	start := time.Now()
	var stored model.RefreshToken

	result := r.db.WithContext(ctx).Where("token = ?", token).First(&stored)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Refresh token lookup failed").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}
	return &stored, nil
}

// Revoke flips an active token to revoked. It reports false when another
// caller revoked it first, which makes revocation a compare-and-set.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id uint) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "RefreshTokenRevoke")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ? AND revoked = ?", id, false).
		Update("revoked", true)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke refresh token").
			Int64("token_id", int64(id)).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// RevokeAllForUser revokes every active token of the user
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "RefreshTokenRevokeAllForUser")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke user refresh tokens").
			String("user_id", userID.String()).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.DebugWithContext(ctx, "Revoked previous refresh tokens").
		String("user_id", userID.String()).
		Int64("revoked", result.RowsAffected).
		Duration(time.Since(start)).
		Log()

	return result.RowsAffected, nil
}
