package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/api"
	"github.com/greenplate/mealsub_go_server/internal/api/handler"
	"github.com/greenplate/mealsub_go_server/internal/database"
	"github.com/greenplate/mealsub_go_server/internal/model"
	"github.com/greenplate/mealsub_go_server/internal/pkg/cron"
	"github.com/greenplate/mealsub_go_server/internal/pkg/csrf"
	"github.com/greenplate/mealsub_go_server/internal/pkg/email"
	"github.com/greenplate/mealsub_go_server/internal/pkg/oauth"
	"github.com/greenplate/mealsub_go_server/internal/pkg/oss"
	"github.com/greenplate/mealsub_go_server/internal/pkg/pubsub"
	"github.com/greenplate/mealsub_go_server/internal/pkg/queue"
	"github.com/greenplate/mealsub_go_server/internal/pkg/ratelimit"
	"github.com/greenplate/mealsub_go_server/internal/pkg/ws"
	"github.com/greenplate/mealsub_go_server/internal/repository"
	"github.com/greenplate/mealsub_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	if err := db.AutoMigrate(
		&model.User{},
		&model.MealPlan{},
		&model.Subscription{},
		&model.SubscriptionMealType{},
		&model.DeliveryDay{},
		&model.PauseRecord{},
		&model.Testimonial{},
		&model.MetricsSnapshot{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub，并把 Redis 事件转发给在线用户
	wsHub := ws.NewHub()
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.EventMessage) {
			if !wsHub.IsOnline(msg.UserID) {
				return
			}
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{
				Type: "subscription_event",
				Data: msg,
			}); err != nil {
				log.Printf("Failed to push event to user %d: %v", msg.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Event subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	pauseRepo := repository.NewPauseRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)

	// 初始化邮件与 OAuth
	mailer := email.NewService(&cfg.Email)
	googleOAuth := oauth.NewGoogleOAuth(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURI,
	)
	stateStore := oauth.NewStateStore(rdb)
	csrfStore := csrf.NewStore(rdb, time.Duration(cfg.CSRF.TTLMinutes)*time.Minute)
	limiter := ratelimit.NewLimiter(rdb, cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)

	// 初始化 Service
	notifier := service.NewSubscriptionNotifier(notifyQueue, publisher)
	authService := service.NewAuthService(userRepo, &cfg.JWT, googleOAuth, stateStore, mailer)
	userService := service.NewUserService(userRepo, ossClient, cfg.Upload.MaxSize)
	planService := service.NewPlanService(planRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, pauseRepo, planRepo, userRepo, notifier)
	testimonialService := service.NewTestimonialService(testimonialRepo, ossClient, cfg.Upload.MaxSize)
	adminService := service.NewAdminService(userRepo, subRepo, testimonialRepo, metricsRepo)

	// 启动每日指标快照任务
	cronService := cron.NewService(adminService)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, csrfStore)
	planHandler := handler.NewPlanHandler(planService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	testimonialHandler := handler.NewTestimonialHandler(testimonialService)
	adminHandler := handler.NewAdminHandler(adminService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		planHandler,
		subscriptionHandler,
		testimonialHandler,
		adminHandler,
		websocketHandler,
		userRepo,
		csrfStore,
		limiter,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
