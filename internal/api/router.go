package api

import (
	"github.com/gin-gonic/gin"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/api/handler"
	"github.com/greenplate/mealsub_go_server/internal/api/middleware"
	"github.com/greenplate/mealsub_go_server/internal/pkg/csrf"
	"github.com/greenplate/mealsub_go_server/internal/pkg/ratelimit"
	"github.com/greenplate/mealsub_go_server/internal/repository"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	planHandler         *handler.PlanHandler
	subscriptionHandler *handler.SubscriptionHandler
	testimonialHandler  *handler.TestimonialHandler
	adminHandler        *handler.AdminHandler
	websocketHandler    *handler.WebSocketHandler
	userRepo            *repository.UserRepository
	csrfStore           *csrf.Store
	limiter             *ratelimit.Limiter
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	planHandler *handler.PlanHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	testimonialHandler *handler.TestimonialHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	csrfStore *csrf.Store,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		planHandler:         planHandler,
		subscriptionHandler: subscriptionHandler,
		testimonialHandler:  testimonialHandler,
		adminHandler:        adminHandler,
		websocketHandler:    websocketHandler,
		userRepo:            userRepo,
		csrfStore:           csrfStore,
		limiter:             limiter,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))
	engine.Use(middleware.RateLimit(r.limiter))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/google", r.authHandler.GoogleLogin)
			auth.GET("/google/callback", r.authHandler.GoogleCallback)
		}

		// 公开接口 - 套餐与评价
		api.GET("/plans", r.planHandler.List)
		api.GET("/plans/:id", r.planHandler.Get)
		api.GET("/testimonials", r.testimonialHandler.List)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.GET("/csrf-token", r.userHandler.GetCSRFToken)
			}

			// 写操作额外过 CSRF 校验
			protected := authenticated.Group("")
			protected.Use(middleware.CSRF(r.csrfStore))
			{
				protected.PUT("/user/profile", r.userHandler.UpdateProfile)
				protected.POST("/user/avatar", r.userHandler.UploadAvatar)

				subscriptions := protected.Group("/subscriptions")
				{
					subscriptions.POST("", r.subscriptionHandler.Create)
					subscriptions.GET("", r.subscriptionHandler.List)
					subscriptions.GET("/:id", r.subscriptionHandler.Get)
					subscriptions.PUT("/:id", r.subscriptionHandler.Update)
					subscriptions.POST("/:id/pause", r.subscriptionHandler.Pause)
					subscriptions.POST("/:id/resume", r.subscriptionHandler.Resume)
					subscriptions.POST("/:id/cancel", r.subscriptionHandler.Cancel)
				}

				protected.POST("/testimonials", r.testimonialHandler.Create)
				protected.POST("/testimonials/photo", r.testimonialHandler.UploadPhoto)
			}

			// 管理后台
			admin := authenticated.Group("/admin")
			admin.Use(middleware.RequireAdmin(r.userRepo))
			{
				admin.GET("/stats", r.adminHandler.Stats)
				admin.GET("/subscriptions", r.adminHandler.ListSubscriptions)
				admin.GET("/snapshots", r.adminHandler.Snapshots)
			}
		}
	}

	return engine
}
