package handler

import (
	"net/http"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/internal/middleware"
	"github.com/Payphone-Digital/leadgen/internal/service"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LeadHandler struct {
	leads *service.LeadService
}

func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// bindFilter reads the query filters. mine=true scopes to the caller and
// takes precedence over user_id.
func bindFilter(c *gin.Context) (dto.LeadFilter, bool) {
	var filter dto.LeadFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return filter, false
	}

	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user_id", raw))
			return filter, false
		}
		filter.UserID = &id
	}
	if filter.Mine {
		if user, ok := middleware.CurrentUser(c); ok {
			id := user.ID
			filter.UserID = &id
		}
	}
	return filter, true
}

func hasPagination(c *gin.Context) bool {
	_, page := c.GetQuery(constants.QueryParamPage)
	_, limit := c.GetQuery(constants.QueryParamLimit)
	return page || limit
}

func (h *LeadHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LeadList")

	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	// without page or limit every matching lead is returned
	if hasPagination(c) {
		page := constants.ParsePaginationParams(c)
		filter.Limit = page.Limit
		filter.Offset = page.Offset
	}

	leads, err := h.leads.List(ctx, filter)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) Count(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LeadCount")

	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	total, err := h.leads.Count(ctx, filter)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": total})
}

func (h *LeadHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LeadGet")

	id, ok := pathID(c)
	if !ok {
		return
	}

	lead, err := h.leads.Get(ctx, id)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

// Create attributes the lead to the caller unless user_id is given
func (h *LeadHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LeadCreate")

	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ctx, err)
		return
	}
	if req.UserID == nil {
		if user, ok := middleware.CurrentUser(c); ok {
			id := user.ID
			req.UserID = &id
		}
	}

	lead, err := h.leads.Create(ctx, &req)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LeadUpdate")

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ctx, err)
		return
	}

	lead, err := h.leads.Update(ctx, id, &req)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LeadDelete")

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.leads.Delete(ctx, id); err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildOKResponse())
}
