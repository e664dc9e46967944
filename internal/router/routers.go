package router

import (
	"time"

	"github.com/Payphone-Digital/leadgen/config"
	"github.com/Payphone-Digital/leadgen/internal/handler"
	"github.com/Payphone-Digital/leadgen/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler   *handler.AuthHandler
	leadHandler   *handler.LeadHandler
	blogHandler   *handler.BlogHandler
	chatHandler   *handler.ChatHandler
	healthHandler *handler.HealthHandler

	validMw *middleware.ValidationMiddleware
	authMw  *middleware.AuthMiddleware
	Config  *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	lead *handler.LeadHandler,
	blog *handler.BlogHandler,
	chat *handler.ChatHandler,
	health *handler.HealthHandler,

	validMw *middleware.ValidationMiddleware,
	authMw *middleware.AuthMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		leadHandler:   lead,
		blogHandler:   blog,
		chatHandler:   chat,
		healthHandler: health,

		validMw: validMw,
		authMw:  authMw,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))
	router.Use(middleware.RequestContext(r.Config.App.Timeout))

	router.GET("/health", r.healthHandler.HealthCheck)
	router.GET("/health/live", r.healthHandler.BasicHealth)
	router.Static(r.Config.Upload.URLPrefix, r.Config.Upload.Dir)

	api := router.Group("")
	api.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
	{
		r.authRoutes(api)
		r.leadRoutes(api)
		r.blogRoutes(api)
		r.chatRoutes(api)
	}

	return router
}
