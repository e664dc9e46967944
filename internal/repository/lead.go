package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/internal/model"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) WithTx(tx *gorm.DB) *LeadRepository {
	return &LeadRepository{db: tx}
}

// applyFilter narrows the query. Industry matches case-insensitively as a substring.
func applyFilter(query *gorm.DB, filter dto.LeadFilter) *gorm.DB {
	if industry := strings.TrimSpace(filter.Industry); industry != "" {
		query = query.Where("LOWER(industry) LIKE ?", "%"+strings.ToLower(industry)+"%")
	}
	if filter.MinLeadScore != nil {
		query = query.Where("lead_score >= ?", *filter.MinLeadScore)
	}
	if filter.MaxLeadScore != nil {
		query = query.Where("lead_score <= ?", *filter.MaxLeadScore)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	return query
}

func (r *LeadRepository) List(ctx context.Context, filter dto.LeadFilter) ([]model.Lead, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadList")

	logger.DebugWithContext(ctx, "Listing leads").
		String("industry", filter.Industry).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var leads []model.Lead

	query := applyFilter(r.db.WithContext(ctx).Model(&model.Lead{}), filter).
		Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Find(&leads).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list leads").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Leads listed").
		Int("count", len(leads)).
		Duration(time.Since(start)).
		Log()

	return leads, nil
}

func (r *LeadRepository) Count(ctx context.Context, filter dto.LeadFilter) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadCount")

	start := time.Now()
	var total int64

	if err := applyFilter(r.db.WithContext(ctx).Model(&model.Lead{}), filter).Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count leads").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return 0, err
	}

	return total, nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadGetByID")

	start := time.Now()
	var lead model.Lead

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error; err != nil {
		logger.DebugWithContext(ctx, "Lead lookup failed").
			String("lead_id", id.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	return &lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadCreate")

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create lead").
			String("business_name", lead.BusinessName).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Lead created").
		String("lead_id", lead.ID.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

// CreateBatch inserts all leads in a single transaction
func (r *LeadRepository) CreateBatch(ctx context.Context, leads []model.Lead) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadCreateBatch")

	if len(leads) == 0 {
		return nil
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&leads).Error
	})

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist lead batch").
			Int("count", len(leads)).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Lead batch persisted").
		Int("count", len(leads)).
		Duration(time.Since(start)).
		Log()
	return nil
}

// Update applies only the given columns and reloads the row
func (r *LeadRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Lead, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadUpdate")

	start := time.Now()
	var lead model.Lead

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&lead).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&lead).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&lead).Error
	})

	if err != nil {
		logger.WarnWithContext(ctx, "Failed to update lead").
			String("lead_id", id.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.InfoWithContext(ctx, "Lead updated").
		String("lead_id", id.String()).
		Int("fields", len(updates)).
		Duration(time.Since(start)).
		Log()

	return &lead, nil
}

// Delete reports false when no row matched
func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "LeadDelete")

	start := time.Now()
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Lead{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete lead").
			String("lead_id", id.String()).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	logger.InfoWithContext(ctx, "Lead delete executed").
		String("lead_id", id.String()).
		Int64("rows_affected", result.RowsAffected).
		Duration(time.Since(start)).
		Log()

	return result.RowsAffected > 0, nil
}
