package main

import (
	"fmt"
	"log"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/api"
	"github.com/NatanaelSou/TCC-Project/internal/api/handler"
	"github.com/NatanaelSou/TCC-Project/internal/database"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/cron"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/oauth"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/oss"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/pubsub"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/queue"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/ws"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/service"
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

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	publisher := pubsub.NewPublisher(rdb)
	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	stateStore := oauth.NewStateStore(rdb)

	// 初始化 OSS（未配置时上传接口不可用）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to create OSS client: %v", err)
		}
		log.Println("OSS client ready")
	} else {
		log.Println("OSS not configured, uploads disabled")
	}

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tierRepo := repository.NewTierRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	muralRepo := repository.NewMuralRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 初始化 Service
	statsService := service.NewStatsService(db, tierRepo, creatorRepo, subRepo, followRepo, contentRepo)
	entitlementService := service.NewEntitlementService(subRepo, channelRepo)
	authService := service.NewAuthService(userRepo, stateStore, cfg)
	userService := service.NewUserService(userRepo, ossClient)
	creatorService := service.NewCreatorService(db, creatorRepo, followRepo, subRepo, statsService, ossClient, publisher)
	tierService := service.NewTierService(db, tierRepo, creatorRepo)
	subService := service.NewSubscriptionService(db, subRepo, tierRepo, statsService, publisher, jobQueue)
	contentService := service.NewContentService(db, contentRepo, tierRepo, subRepo, followRepo, entitlementService, statsService)
	communityService := service.NewCommunityService(db, channelRepo, messageRepo, muralRepo, creatorRepo, entitlementService, wsHub, publisher, jobQueue)
	paymentService := service.NewPaymentService(db, paymentRepo, tierRepo, subRepo, subService, statsService, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, cfg)
	creatorHandler := handler.NewCreatorHandler(creatorService, cfg)
	tierHandler := handler.NewTierHandler(tierService)
	subscriptionHandler := handler.NewSubscriptionHandler(subService)
	contentHandler := handler.NewContentHandler(contentService)
	communityHandler := handler.NewCommunityHandler(communityService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 定时任务：订阅过期 + 计数器对账
	cronService := cron.NewService(subService, statsService)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		creatorHandler,
		tierHandler,
		subscriptionHandler,
		contentHandler,
		communityHandler,
		paymentHandler,
		websocketHandler,
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
