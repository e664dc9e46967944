package router

import (
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/gin-gonic/gin"
)

const moduleLead = "lead"

func (r *Router) leadRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.Use(r.authMw.RequireAuth())
	{
		leads.GET("", r.authMw.RequirePermission(moduleLead, model.ActionRead), r.leadHandler.List)
		leads.GET("/count", r.authMw.RequirePermission(moduleLead, model.ActionRead), r.leadHandler.Count)
		leads.GET("/:id", r.authMw.RequirePermission(moduleLead, model.ActionRead), r.leadHandler.Get)
		leads.POST("", r.authMw.RequirePermission(moduleLead, model.ActionCreate), r.leadHandler.Create)
		leads.PUT("/:id", r.authMw.RequirePermission(moduleLead, model.ActionUpdate), r.leadHandler.Update)
		leads.DELETE("/:id", r.authMw.RequirePermission(moduleLead, model.ActionDelete), r.leadHandler.Delete)
	}
}
