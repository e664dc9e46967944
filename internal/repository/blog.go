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

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) List(ctx context.Context, limit, offset int) ([]model.Blog, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "BlogList")

	start := time.Now()
	var (
		blogs []model.Blog
		total int64
	)

	query := r.db.WithContext(ctx).Model(&model.Blog{})
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count blogs").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&blogs).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to list blogs").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Blogs listed").
		Int("count", len(blogs)).
		Int64("total", total).
		Duration(time.Since(start)).
		Log()

	return blogs, total, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "BlogGetByID")

	var blog model.Blog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error; err != nil {
		logger.DebugWithContext(ctx, "Blog lookup failed").
			String("blog_id", id.String()).
			Err(err).
			Log()
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "BlogCreate")

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create blog").
			String("title", blog.Title).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Blog created").
		String("blog_id", blog.ID.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

// Save writes every column of an already loaded blog
func (r *BlogRepository) Save(ctx context.Context, blog *model.Blog) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "BlogSave")

	start := time.Now()
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to save blog").
			String("blog_id", blog.ID.String()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "BlogDelete")

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Blog{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete blog").
			String("blog_id", id.String()).
			Err(result.Error).
			Log()
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
