package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/cache"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/queue"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/repository"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/solver"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/worker"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	resultCache := cache.NewResultCache(rdb,
		time.Duration(cfg.Solver.CacheExpiration)*time.Second,
		time.Duration(cfg.Redis.OperationTimeout)*time.Second,
	)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	if err := queue.Declare(ch, cfg.RabbitMQ.SolveQueue, cfg.RabbitMQ.EmailQueue); err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 求解是 CPU 密集的，每次只取一条消息
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置预取数量", slog.String("error", err.Error()))
		return
	}

	w := worker.New(
		logger,
		repo,
		resultCache,
		solver.New(logger, cfg.Solver.Workers),
		queue.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second),
		cfg.RabbitMQ.EmailQueue,
	)

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		cfg.RabbitMQ.SolveQueue, // 队列
		"",                      // 消费者标识，由 RabbitMQ 自动分配
		false,                   // 手动确认
		false,                   // 是否独占队列
		false,                   // RabbitMQ 不支持 noLocal
		false,                   // 等待 RabbitMQ 响应
		nil,                     // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}
				logger.Info("收到求解消息", slog.String("message_id", msg.MessageId), slog.String("body", string(msg.Body)))

				if err := w.Handle(ctx, msg.Body); err != nil {
					if errors.Is(err, worker.ErrDiscard) {
						logger.Error("丢弃消息", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
					} else {
						logger.Error("处理消息失败，重新入队", slog.String("error", err.Error()))
						_ = msg.Nack(false, true)
					}
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("等待求解消息...（按 CTRL+C 退出）")
	<-sigChan

	// 正在进行的求解会在结束后退出
	slog.Info("正在关闭 solve worker...")
	cancel()
	wg.Wait()
	slog.Info("solve worker 已成功关闭")
}
