package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/database"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/email"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/queue"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/ws"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/worker"
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

	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)

	// 邮件服务（未配置 SMTP 时邮件发送会失败并记录日志）
	var emailSvc *email.Service
	if cfg.Email.SMTPHost != "" {
		emailSvc = email.NewService(&cfg.Email)
		log.Println("Email service ready")
	} else {
		log.Println("Email not configured, notifications are log-only")
	}

	// worker 进程没有 WebSocket 连接，hub 仅作为占位
	wsHub := ws.NewHub()

	userRepo := repository.NewUserRepository(db)
	tierRepo := repository.NewTierRepository(db)
	channelRepo := repository.NewChannelRepository(db)

	notifier := worker.NewNotifier(userRepo, tierRepo, channelRepo, emailSvc, wsHub)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	log.Printf("Notification worker started, max workers: %d", maxWorkers)

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := notifier.Run(ctx, jobQueue); err != nil {
				log.Printf("Worker %d stopped: %v", workerID, err)
			}
		}(i)
	}

	wg.Wait()
	log.Println("Worker shutdown complete")
}
