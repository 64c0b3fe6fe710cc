package solver

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/genetic"
)

// DefaultTournamentSize 在参数中没有指定锦标赛规模时使用
const DefaultTournamentSize = 3

var (
	ErrUnknownKind = errors.New("未知的问题类型")
	ErrMissingData = errors.New("问题缺少对应类型的数据")
)

type Solver struct {
	logger  *slog.Logger
	workers int
}

func New(logger *slog.Logger, workers int) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{
		logger:  logger,
		workers: workers,
	}
}

// Solve 对问题运行一次遗传算法。
// 参数中的种子为 0 时使用当前时间生成种子，实际使用的种子写入结果，以便复现
func (s *Solver) Solve(problem *domain.Problem, params domain.RunParameters) (*domain.RunResult, error) {
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gp := s.parameters(params)

	history := make([]float64, 0, params.Generations+1)
	opts := []genetic.Option{
		genetic.WithLogger(s.logger.With("problem_id", problem.ID)),
		genetic.WithObserver(func(st genetic.GenerationStats) {
			history = append(history, st.Best)
		}),
	}

	start := time.Now()

	var (
		result *domain.RunResult
		err    error
	)
	switch problem.Kind {
	case domain.ProblemKindKnapsack:
		result, err = s.solveKnapsack(problem, gp, seed, opts)
	case domain.ProblemKindAllocation:
		result, err = s.solveAllocation(problem, gp, seed, opts)
	case domain.ProblemKindTour:
		result, err = s.solveTour(problem, gp, seed, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, problem.Kind)
	}
	if err != nil {
		return nil, err
	}

	result.Seed = seed
	result.History = history
	result.DurationMs = time.Since(start).Milliseconds()

	s.logger.Info("求解完成",
		"problem_id", problem.ID,
		"kind", problem.Kind,
		"fitness", result.Fitness,
		"feasible", result.Feasible,
		"seed", seed,
		"duration", time.Since(start),
	)

	return result, nil
}

func (s *Solver) parameters(p domain.RunParameters) *genetic.Parameters {
	tournamentSize := p.TournamentSize
	if tournamentSize == 0 {
		tournamentSize = DefaultTournamentSize
	}

	return &genetic.Parameters{
		PopulationSize: p.PopulationSize,
		Generations:    p.Generations,
		CrossoverRate:  p.CrossoverRate,
		MutationRate:   p.MutationRate,
		TournamentSize: tournamentSize,
		Workers:        s.workers,
		KeepBestEver:   p.KeepBestEver,
	}
}

func (s *Solver) solveKnapsack(problem *domain.Problem, gp *genetic.Parameters, seed int64, opts []genetic.Option) (*domain.RunResult, error) {
	if problem.Knapsack == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingData, problem.Kind)
	}

	k := Knapsack(problem.Knapsack)
	best, err := genetic.SolveKnapsack(k, gp, genetic.NewRand(seed), opts...)
	if err != nil {
		return nil, err
	}

	weight, _ := k.Totals(best.Genes)
	result := &domain.RunResult{
		Fitness:       best.Fitness,
		Feasible:      weight <= k.Capacity,
		SelectedItems: []int{},
		TotalWeight:   weight,
	}
	for i, included := range best.Genes {
		if included {
			result.SelectedItems = append(result.SelectedItems, i)
		}
	}

	return result, nil
}

func (s *Solver) solveAllocation(problem *domain.Problem, gp *genetic.Parameters, seed int64, opts []genetic.Option) (*domain.RunResult, error) {
	if problem.Allocation == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingData, problem.Kind)
	}

	a := Allocation(problem.Allocation)
	best, err := genetic.SolveAllocation(a, gp, genetic.NewRand(seed), opts...)
	if err != nil {
		return nil, err
	}

	assignments, dropped := Assignments(a, best.Genes)

	return &domain.RunResult{
		Fitness:      best.Fitness,
		Feasible:     len(dropped) == 0,
		Assignments:  assignments,
		DroppedTasks: dropped,
	}, nil
}

func (s *Solver) solveTour(problem *domain.Problem, gp *genetic.Parameters, seed int64, opts []genetic.Option) (*domain.RunResult, error) {
	if problem.Tour == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingData, problem.Kind)
	}

	best, err := genetic.SolveTour(Tour(problem.Tour), gp, genetic.NewRand(seed), opts...)
	if err != nil {
		return nil, err
	}

	return &domain.RunResult{
		Fitness:  best.Fitness,
		Feasible: true,
		Route:    best.Genes,
	}, nil
}
