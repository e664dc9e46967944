package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/service"
	"github.com/Payphone-Digital/leadgen/pkg/blogutil"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const blogUploadSubdir = "blogs"

// UploadConfig says where blog images are written and how they are served
type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxMemory int64
}

type BlogHandler struct {
	blogs  *service.BlogService
	upload UploadConfig
}

func NewBlogHandler(blogs *service.BlogService, upload UploadConfig) *BlogHandler {
	return &BlogHandler{blogs: blogs, upload: upload}
}

var errMissingUpload = errors.New("referenced image file was not uploaded")

// saveUpload stores file as {dir}/blogs/{uuid}_{name} and returns its public URL
func (h *BlogHandler) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + "_" + filepath.Base(file.Filename)
	dir := filepath.Join(h.upload.Dir, blogUploadSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return path.Join(h.upload.URLPrefix, blogUploadSubdir, name), nil
}

// readForm extracts the blog fields of a multipart request. Inline image
// blocks are resolved against uploaded parts named by their file field.
func (h *BlogHandler) readForm(c *gin.Context) (title *string, content json.RawMessage, featured *string, err error) {
	if err := c.Request.ParseMultipartForm(h.upload.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil, apperrors.WrapError(apperrors.ErrInvalidInput, err)
	}

	if v, ok := c.GetPostForm("title"); ok {
		title = &v
	}

	if raw, ok := c.GetPostForm("content"); ok {
		if err := blogutil.Validate([]byte(raw)); err != nil {
			return nil, nil, nil, apperrors.WrapError(apperrors.ErrInvalidContent, err)
		}
		resolved, err := blogutil.ResolveImages([]byte(raw), func(field string) (string, error) {
			file, err := c.FormFile(field)
			if err != nil {
				return "", errMissingUpload
			}
			return h.saveUpload(c, file)
		})
		if errors.Is(err, errMissingUpload) {
			return nil, nil, nil, apperrors.WrapError(apperrors.ErrInvalidInput, err)
		}
		if err != nil {
			return nil, nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		content = resolved
	}

	if file, err := c.FormFile("featured_image"); err == nil {
		url, err := h.saveUpload(c, file)
		if err != nil {
			return nil, nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		featured = &url
	}

	return title, content, featured, nil
}

func (h *BlogHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BlogList")

	page := constants.ParsePaginationParams(c)
	blogs, total, pageTotal, err := h.blogs.List(ctx, page.Limit, page.Offset)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(total, page.Page, pageTotal, blogs))
}

func (h *BlogHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BlogGet")

	id, ok := pathID(c)
	if !ok {
		return
	}

	blog, err := h.blogs.Get(ctx, id)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BlogCreate")

	title, content, featured, err := h.readForm(c)
	if err != nil {
		respondError(c, ctx, err)
		return
	}
	if title == nil || *title == "" || content == nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("title and content are required", nil))
		return
	}

	blog, err := h.blogs.Create(ctx, dto.CreateBlogInput{
		Title:         *title,
		Content:       content,
		FeaturedImage: featured,
	})
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	logger.InfoWithContext(ctx, "Blog published").
		String("blog_id", blog.ID.String()).
		Bool("featured_image", featured != nil).
		Log()

	c.JSON(http.StatusCreated, blog)
}

func (h *BlogHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BlogUpdate")

	id, ok := pathID(c)
	if !ok {
		return
	}

	title, content, featured, err := h.readForm(c)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	blog, err := h.blogs.Update(ctx, id, dto.UpdateBlogInput{
		Title:         title,
		Content:       content,
		FeaturedImage: featured,
	})
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "BlogDelete")

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.blogs.Delete(ctx, id); err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildOKResponse())
}
