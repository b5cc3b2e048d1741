package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/database"
	"github.com/greenplate/mealsub_go_server/internal/pkg/email"
	"github.com/greenplate/mealsub_go_server/internal/pkg/queue"
	"github.com/greenplate/mealsub_go_server/internal/worker"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)
	mailer := email.NewService(&cfg.Email)
	notifier := worker.NewNotifier(notifyQueue, mailer)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	log.Printf("Worker started, max workers: %d", maxWorkers)

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			notifier.Run(ctx, workerID)
		}(i + 1)
	}

	wg.Wait()
	log.Println("All workers stopped")
}
