package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/seed"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/solver"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/utils"
)

func main() {
	var (
		kind       string
		size       int
		classic    bool
		citiesPath string
		dataSeed   int64
		workers    int
		verbose    bool
	)
	params := domain.RunParameters{}

	flag.StringVar(&kind, "kind", "knapsack", "问题类型 (knapsack, allocation, tour)")
	flag.IntVar(&size, "size", 20, "随机问题的规模")
	flag.BoolVar(&classic, "classic", false, "使用经典问题和默认参数")
	flag.StringVar(&citiesPath, "cities", "", "从 CSV 文件读取城市，指定时忽略 -kind")
	flag.Int64Var(&dataSeed, "data-seed", 0, "生成问题使用的随机数种子，为 0 时使用当前时间")
	flag.IntVar(&params.PopulationSize, "pop", 0, "种群大小，为 0 时使用默认参数")
	flag.IntVar(&params.Generations, "gen", 0, "迭代次数，为 0 时使用默认参数")
	flag.Float64Var(&params.CrossoverRate, "cx", -1, "交叉概率，为负数时使用默认参数")
	flag.Float64Var(&params.MutationRate, "mut", -1, "变异概率，为负数时使用默认参数")
	flag.IntVar(&params.TournamentSize, "tournament", 0, "锦标赛规模")
	flag.BoolVar(&params.KeepBestEver, "keep-best", false, "返回整个搜索过程中的最优解")
	flag.Int64Var(&params.Seed, "seed", 0, "遗传算法的随机数种子，为 0 时使用当前时间")
	flag.IntVar(&workers, "workers", 1, "并行计算适应度的协程数")
	flag.BoolVar(&verbose, "v", false, "输出每一代的日志")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	problem, err := loadProblem(domain.ProblemKind(kind), size, classic, citiesPath, dataSeed)
	if err != nil {
		logger.Error("无法生成问题", "error", err)
		os.Exit(1)
	}
	if err := utils.ValidateProblem(problem); err != nil {
		logger.Error("问题不合法", "error", err)
		os.Exit(1)
	}

	result, err := solver.New(logger, workers).Solve(problem, mergeParameters(problem.Kind, params))
	if err != nil {
		logger.Error("求解失败", "error", err)
		os.Exit(1)
	}

	if err := printResult(os.Stdout, problem, result); err != nil {
		logger.Error("无法输出结果", "error", err)
		os.Exit(1)
	}
}

func loadProblem(kind domain.ProblemKind, size int, classic bool, citiesPath string, dataSeed int64) (*domain.Problem, error) {
	if dataSeed == 0 {
		dataSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(dataSeed))

	if citiesPath != "" {
		file, err := os.Open(citiesPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		cities, err := seed.ReadCities(file)
		if err != nil {
			return nil, err
		}
		return &domain.Problem{Name: citiesPath, Kind: domain.ProblemKindTour, Tour: &domain.TourData{Cities: cities}}, nil
	}

	if classic {
		switch kind {
		case domain.ProblemKindKnapsack:
			return seed.ClassicKnapsack(), nil
		case domain.ProblemKindAllocation:
			return seed.ClassicAllocation(rng), nil
		case domain.ProblemKindTour:
			return seed.ClassicTour(rng), nil
		default:
			return nil, fmt.Errorf("未知的问题类型: %s", kind)
		}
	}

	return utils.GenerateRandomProblem(rng, kind, size)
}

// mergeParameters 用命令行中指定的参数覆盖该类问题的默认参数
func mergeParameters(kind domain.ProblemKind, flags domain.RunParameters) domain.RunParameters {
	params := seed.DefaultParameters(kind)
	if flags.PopulationSize > 0 {
		params.PopulationSize = flags.PopulationSize
	}
	if flags.Generations > 0 {
		params.Generations = flags.Generations
	}
	if flags.CrossoverRate >= 0 {
		params.CrossoverRate = flags.CrossoverRate
	}
	if flags.MutationRate >= 0 {
		params.MutationRate = flags.MutationRate
	}
	if flags.TournamentSize > 0 {
		params.TournamentSize = flags.TournamentSize
	}
	params.KeepBestEver = flags.KeepBestEver
	params.Seed = flags.Seed
	return params
}
