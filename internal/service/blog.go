package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	"github.com/Payphone-Digital/leadgen/pkg/blogutil"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogService struct {
	repoBlog *repository.BlogRepository
}

func NewBlogService(repoBlog *repository.BlogRepository) *BlogService {
	return &BlogService{repoBlog: repoBlog}
}

// List returns one page of blogs and the page count
func (s *BlogService) List(ctx context.Context, limit, offset int) ([]dto.BlogResponse, int64, int, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "BlogList")

	blogs, total, err := s.repoBlog.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, 0, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	pageTotal := 1
	if limit > 0 {
		pageTotal = int(math.Ceil(float64(total) / float64(limit)))
	}
	res := make([]dto.BlogResponse, 0, len(blogs))
	for i := range blogs {
		res = append(res, toBlogResponse(&blogs[i]))
	}
	return res, total, pageTotal, nil
}

// Get returns the blog with its table of contents
func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*dto.BlogDetailResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "BlogGet")

	blog, err := s.repoBlog.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrBlogNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	headings := blogutil.GenerateTOC(blog.Content)
	toc := make([]dto.TOCEntry, 0, len(headings))
	for _, h := range headings {
		toc = append(toc, dto.TOCEntry{Level: h.Level, Text: h.Text})
	}

	return &dto.BlogDetailResponse{BlogResponse: toBlogResponse(blog), TOC: toc}, nil
}

func (s *BlogService) Create(ctx context.Context, input dto.CreateBlogInput) (*dto.BlogResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "BlogCreate")

	if err := blogutil.Validate(input.Content); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidContent, err)
	}

	blog := &model.Blog{
		Title:         input.Title,
		Content:       datatypes.JSON(input.Content),
		FeaturedImage: input.FeaturedImage,
	}
	if err := s.repoBlog.Create(ctx, blog); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	logger.InfoWithContext(ctx, "Blog created").
		String("blog_id", blog.ID.String()).
		Log()

	res := toBlogResponse(blog)
	return &res, nil
}

// Update applies the non-nil fields of input
func (s *BlogService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateBlogInput) (*dto.BlogResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "BlogUpdate")

	if input.Content != nil {
		if err := blogutil.Validate(input.Content); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInvalidContent, err)
		}
	}

	blog, err := s.repoBlog.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrBlogNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	if input.Title != nil {
		blog.Title = *input.Title
	}
	if input.Content != nil {
		blog.Content = datatypes.JSON(input.Content)
	}
	if input.FeaturedImage != nil {
		blog.FeaturedImage = input.FeaturedImage
	}

	if err := s.repoBlog.Save(ctx, blog); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	res := toBlogResponse(blog)
	return &res, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "BlogDelete")

	deleted, err := s.repoBlog.Delete(ctx, id)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrStorage, err)
	}
	if !deleted {
		return apperrors.ErrBlogNotFound
	}

	logger.InfoWithContext(ctx, "Blog deleted").
		String("blog_id", id.String()).
		Log()
	return nil
}

func toBlogResponse(blog *model.Blog) dto.BlogResponse {
	return dto.BlogResponse{
		ID:            blog.ID,
		Title:         blog.Title,
		Content:       json.RawMessage(blog.Content),
		FeaturedImage: blog.FeaturedImage,
		CreatedAt:     blog.CreatedAt,
		UpdatedAt:     blog.UpdatedAt,
	}
}
