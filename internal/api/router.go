package api

import (
	"github.com/gin-gonic/gin"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/api/handler"
	"github.com/NatanaelSou/TCC-Project/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	creatorHandler      *handler.CreatorHandler
	tierHandler         *handler.TierHandler
	subscriptionHandler *handler.SubscriptionHandler
	contentHandler      *handler.ContentHandler
	communityHandler    *handler.CommunityHandler
	paymentHandler      *handler.PaymentHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	creatorHandler *handler.CreatorHandler,
	tierHandler *handler.TierHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	contentHandler *handler.ContentHandler,
	communityHandler *handler.CommunityHandler,
	paymentHandler *handler.PaymentHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		creatorHandler:      creatorHandler,
		tierHandler:         tierHandler,
		subscriptionHandler: subscriptionHandler,
		contentHandler:      contentHandler,
		communityHandler:    communityHandler,
		paymentHandler:      paymentHandler,
		websocketHandler:    websocketHandler,
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

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/github/url", r.authHandler.GithubAuthURL)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 支付网关回调（签名校验，不走 JWT）
		api.POST("/payments/webhook", r.paymentHandler.Webhook)

		// 公开读取（可选认证，登录用户能看到解锁状态）
		public := api.Group("")
		public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			public.GET("/users/:id", r.userHandler.Get)
			public.GET("/creators/popular", r.creatorHandler.Popular)
			public.GET("/creators/:id", r.creatorHandler.Get)
			public.GET("/creators/:id/tiers", r.tierHandler.ListByCreator)
			public.GET("/creators/:id/contents", r.contentHandler.ListByCreator)
			public.GET("/tiers/:id", r.tierHandler.Get)
			public.GET("/contents/:id", r.contentHandler.Get)
			public.GET("/channels", r.communityHandler.ListChannels)
			public.GET("/channels/:id/messages", r.communityHandler.ListMessages)
			public.GET("/channels/:id/posts", r.communityHandler.ListMuralPosts)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			authenticated.GET("/users/me", r.userHandler.Me)
			authenticated.PUT("/users/me", r.userHandler.UpdateProfile)
			authenticated.POST("/users/me/avatar", r.userHandler.UploadAvatar)

			// 创作者
			creators := authenticated.Group("/creators")
			{
				creators.POST("", r.creatorHandler.Become)
				creators.PUT("/me", r.creatorHandler.Update)
				creators.GET("/me/stats", r.creatorHandler.Stats)
				creators.POST("/me/banner", r.creatorHandler.UploadBanner)
				creators.POST("/:id/follow", r.creatorHandler.ToggleFollow)
			}

			// 档位
			tiers := authenticated.Group("/tiers")
			{
				tiers.POST("", r.tierHandler.Create)
				tiers.PUT("/:id", r.tierHandler.Update)
				tiers.DELETE("/:id", r.tierHandler.Deactivate)
			}

			// 订阅
			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.POST("", r.subscriptionHandler.Subscribe)
				subscriptions.GET("", r.subscriptionHandler.List)
				subscriptions.GET("/subscribers", r.subscriptionHandler.Subscribers)
				subscriptions.POST("/:id/cancel", r.subscriptionHandler.Cancel)
				subscriptions.POST("/:id/pause", r.subscriptionHandler.Pause)
				subscriptions.POST("/:id/resume", r.subscriptionHandler.Resume)
				subscriptions.POST("/:id/reactivate", r.subscriptionHandler.Reactivate)
			}

			// 内容
			contents := authenticated.Group("/contents")
			{
				contents.POST("", r.contentHandler.Publish)
				contents.GET("/feed", r.contentHandler.Feed)
				contents.PUT("/:id", r.contentHandler.Update)
				contents.DELETE("/:id", r.contentHandler.Delete)
			}

			// 社区频道
			channels := authenticated.Group("/channels")
			{
				channels.POST("", r.communityHandler.CreateChannel)
				channels.POST("/:id/join", r.communityHandler.Join)
				channels.POST("/:id/messages", r.communityHandler.SendMessage)
				channels.POST("/:id/posts", r.communityHandler.CreateMuralPost)
			}

			// 支付
			authenticated.POST("/payments/checkout", r.paymentHandler.Checkout)
			authenticated.GET("/payments", r.paymentHandler.History)
		}
	}

	return engine
}
