package router

import (
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/gin-gonic/gin"
)

const moduleBlog = "blog"

// blogRoutes keeps reads public
func (r *Router) blogRoutes(rg *gin.RouterGroup) {
	blogs := rg.Group("/blogs")
	{
		blogs.GET("", r.blogHandler.List)
		blogs.GET("/:id", r.blogHandler.Get)

		blogs.POST("", r.authMw.RequireAuth(), r.authMw.RequirePermission(moduleBlog, model.ActionCreate), r.blogHandler.Create)
		blogs.PUT("/:id", r.authMw.RequireAuth(), r.authMw.RequirePermission(moduleBlog, model.ActionUpdate), r.blogHandler.Update)
		blogs.DELETE("/:id", r.authMw.RequireAuth(), r.authMw.RequirePermission(moduleBlog, model.ActionDelete), r.blogHandler.Delete)
	}
}

func (r *Router) chatRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", r.authMw.OptionalAuth(), r.chatHandler.Chat)
}
