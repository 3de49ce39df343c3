package main

import (
	"flag"
	"log"
	"time"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/database"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/service"
)

var (
	expireSubs = flag.Bool("expire", true, "Expire overdue subscriptions")
	recompute  = flag.Bool("recompute", true, "Recompute creator and tier counters from ground truth")
	configPath = flag.String("config", "config.yaml", "Path to config file")
)

// 一次性维护任务：过期处理 + 计数器对账。
// 正常情况下由 server 内置的定时任务完成，这个命令用于手动补偿。
func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	tierRepo := repository.NewTierRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	followRepo := repository.NewFollowRepository(db)
	contentRepo := repository.NewContentRepository(db)

	statsService := service.NewStatsService(db, tierRepo, creatorRepo, subRepo, followRepo, contentRepo)
	subService := service.NewSubscriptionService(db, subRepo, tierRepo, statsService, nil, nil)

	if *expireSubs {
		count, err := subService.ExpireOverdue(time.Now())
		if err != nil {
			log.Fatalf("Failed to expire subscriptions: %v", err)
		}
		log.Printf("Expired %d overdue subscriptions", count)
	}

	if *recompute {
		count, err := statsService.RecomputeAll()
		if err != nil {
			log.Fatalf("Failed to recompute counters: %v", err)
		}
		log.Printf("Recomputed counters for %d creators", count)
	}

	log.Println("Reconcile complete")
}
