package router

import (
	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/authenticate")
	{
		auth.POST("/register",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.RegisterRequest{} }),
			r.authHandler.Register)
		auth.POST("/login",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.LoginRequest{} }),
			r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.Refresh)
		auth.POST("/logout", r.authHandler.Logout)
		auth.GET("/me", r.authMw.RequireAuth(), r.authHandler.Me)
	}
}
