package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/repository"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/seed"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var size int
	var randSeed int64
	var citiesPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机背包问题, 2: 插入随机任务分配问题, 3: 插入随机旅行商问题, 4: 插入经典问题, 5: 从 CSV 插入城市)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&size, "size", 20, "随机问题的规模")
	flag.Int64Var(&randSeed, "seed", 0, "随机数种子，为 0 时使用当前时间")
	flag.StringVar(&citiesPath, "cities", "./internal/seed/data/cities.csv", "城市 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(randSeed))
	logger.Info("使用随机数种子", "seed", randSeed)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1, 2, 3:
		kind := []domain.ProblemKind{domain.ProblemKindKnapsack, domain.ProblemKindAllocation, domain.ProblemKindTour}[op-1]
		if n <= 0 || size <= 0 {
			slog.Error("请输入合法的问题数量和规模")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			problem, err := utils.GenerateRandomProblem(rng, kind, size)
			if err != nil {
				slog.Error("无法生成随机问题", slog.String("error", err.Error()))
				return
			}

			if err := repo.CreateProblem(problem); err != nil {
				slog.Error("无法插入问题", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入问题成功", slog.String("kind", string(kind)), slog.Int("count", cnt))
	case 4:
		seed.SeedClassicProblems(repo, rng)
	case 5:
		seed.SeedCities(repo, citiesPath)
	default:
		slog.Error("指定的操作非法")
	}
}
