package genetic_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/genetic"
)

func knapsackParams() *genetic.Parameters {
	return &genetic.Parameters{
		PopulationSize: 20,
		Generations:    50,
		CrossoverRate:  0.8,
		MutationRate:   0.05,
		TournamentSize: 3,
	}
}

func randomTour(seed int64, n int) *genetic.Tour {
	rng := genetic.NewRand(seed)
	tour := &genetic.Tour{}
	for i := 0; i < n; i++ {
		tour.Cities = append(tour.Cities, genetic.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100})
	}
	return tour
}

func TestSolveKnapsack_ConvergesToOptimum(t *testing.T) {
	// 容量 50 时最优解是第 2、3 个物品（重量 50，价值 220）
	hits := 0
	for seed := int64(1); seed <= 10; seed++ {
		best, err := genetic.SolveKnapsack(classicKnapsack(), knapsackParams(), genetic.NewRand(seed))
		require.NoError(t, err)
		require.Len(t, best.Genes, 3)
		if best.Fitness == 220 {
			hits++
		}
	}
	require.GreaterOrEqual(t, hits, 9)
}

func TestSolveKnapsack_InfeasibleStillReturnsChromosome(t *testing.T) {
	k := &genetic.Knapsack{Capacity: 5, Items: []genetic.Item{{Weight: 10, Value: 60}, {Weight: 20, Value: 100}}}

	best, err := genetic.SolveKnapsack(k, knapsackParams(), genetic.NewRand(1))
	require.NoError(t, err)
	require.Equal(t, 0.0, best.Fitness)
}

func TestSolveAllocation_SingleTask(t *testing.T) {
	a := &genetic.Allocation{
		Tasks:     []genetic.Task{{ID: 0, Cost: 50}},
		Resources: []genetic.Resource{{ID: 0, Capacity: 100}},
	}

	for _, generations := range []int{1, 5, 30} {
		params := &genetic.Parameters{PopulationSize: 4, Generations: generations, MutationRate: 0.5}
		best, err := genetic.SolveAllocation(a, params, genetic.NewRand(int64(generations)))
		require.NoError(t, err)
		require.Equal(t, 50.0, best.Fitness)
		require.Equal(t, []int{0}, best.Genes)
	}
}

func TestSolveAllocation_GenesStayInRange(t *testing.T) {
	rng := genetic.NewRand(77)
	a := &genetic.Allocation{}
	for i := 0; i < 10; i++ {
		a.Tasks = append(a.Tasks, genetic.Task{ID: i, Cost: 1 + rng.Intn(99)})
	}
	for i := 0; i < 3; i++ {
		a.Resources = append(a.Resources, genetic.Resource{ID: i, Capacity: 100 + rng.Intn(200)})
	}

	params := &genetic.Parameters{PopulationSize: 30, Generations: 40, MutationRate: 0.05}
	best, err := genetic.SolveAllocation(a, params, rng)
	require.NoError(t, err)
	require.Len(t, best.Genes, 10)
	for _, g := range best.Genes {
		require.GreaterOrEqual(t, g, 0)
		require.Less(t, g, 3)
	}
	require.Equal(t, float64(a.Imbalance(best.Genes)), best.Fitness)
}

func TestSolveTour_TwoCities(t *testing.T) {
	tour := &genetic.Tour{Cities: []genetic.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}

	for _, params := range []*genetic.Parameters{
		{PopulationSize: 2, Generations: 1, MutationRate: 0.01},
		{PopulationSize: 7, Generations: 3, MutationRate: 1},
	} {
		best, err := genetic.SolveTour(tour, params, genetic.NewRand(3))
		require.NoError(t, err)
		require.Equal(t, 20.0, best.Fitness)
		requirePermutation(t, best.Genes, 2)
	}
}

func TestSolveTour_ResultIsPermutation(t *testing.T) {
	tour := randomTour(5, 30)
	params := &genetic.Parameters{PopulationSize: 40, Generations: 60, MutationRate: 0.02}

	best, err := genetic.SolveTour(tour, params, genetic.NewRand(5))
	require.NoError(t, err)
	requirePermutation(t, best.Genes, 30)
	require.InDelta(t, tour.Length(best.Genes), best.Fitness, 1e-9)
}

func TestRun_Deterministic(t *testing.T) {
	tour := randomTour(9, 20)
	params := &genetic.Parameters{PopulationSize: 30, Generations: 30, MutationRate: 0.05}

	first, err := genetic.SolveTour(tour, params, genetic.NewRand(123))
	require.NoError(t, err)
	second, err := genetic.SolveTour(tour, params, genetic.NewRand(123))
	require.NoError(t, err)

	require.Equal(t, first.Genes, second.Genes)
	require.Equal(t, first.Fitness, second.Fitness)
}

func TestRun_ParallelEvaluationMatchesSerial(t *testing.T) {
	tour := randomTour(10, 25)
	serial := &genetic.Parameters{PopulationSize: 30, Generations: 20, MutationRate: 0.05}
	parallel := *serial
	parallel.Workers = 4

	a, err := genetic.SolveTour(tour, serial, genetic.NewRand(55))
	require.NoError(t, err)
	b, err := genetic.SolveTour(tour, &parallel, genetic.NewRand(55))
	require.NoError(t, err)

	require.Equal(t, a.Genes, b.Genes)
	require.Equal(t, a.Fitness, b.Fitness)

	k1, err := genetic.SolveKnapsack(classicKnapsack(), knapsackParams(), genetic.NewRand(8))
	require.NoError(t, err)
	kp := knapsackParams()
	kp.Workers = 3
	k2, err := genetic.SolveKnapsack(classicKnapsack(), kp, genetic.NewRand(8))
	require.NoError(t, err)
	require.Equal(t, k1.Genes, k2.Genes)
}

func TestRun_ObserverSeesEveryGeneration(t *testing.T) {
	tour := randomTour(11, 12)
	params := &genetic.Parameters{PopulationSize: 9, Generations: 15, MutationRate: 0.05}

	var stats []genetic.GenerationStats
	_, err := genetic.SolveTour(tour, params, genetic.NewRand(1), genetic.WithObserver(func(s genetic.GenerationStats) {
		stats = append(stats, s)
	}))
	require.NoError(t, err)

	// 初始种群 + 每一代之后各一次
	require.Len(t, stats, params.Generations+1)
	for i, s := range stats {
		require.Equal(t, i, s.Generation)
		require.Equal(t, params.PopulationSize, s.Size)
		require.LessOrEqual(t, s.Best, s.Mean+1e-9)
		require.LessOrEqual(t, s.Mean, s.Worst+1e-9)
	}
}

func TestRun_KeepBestEverReturnsArchive(t *testing.T) {
	tour := randomTour(12, 20)
	params := &genetic.Parameters{PopulationSize: 10, Generations: 40, MutationRate: 0.3, KeepBestEver: true}

	bestSeen := -1.0
	best, err := genetic.SolveTour(tour, params, genetic.NewRand(4), genetic.WithObserver(func(s genetic.GenerationStats) {
		if bestSeen < 0 || s.Best < bestSeen {
			bestSeen = s.Best
		}
	}))
	require.NoError(t, err)
	require.Equal(t, bestSeen, best.Fitness)
	require.InDelta(t, tour.Length(best.Genes), best.Fitness, 1e-9)
}

func TestRun_WithoutArchiveReturnsFinalBest(t *testing.T) {
	tour := randomTour(12, 20)
	params := &genetic.Parameters{PopulationSize: 10, Generations: 40, MutationRate: 0.3}

	var last genetic.GenerationStats
	best, err := genetic.SolveTour(tour, params, genetic.NewRand(4), genetic.WithObserver(func(s genetic.GenerationStats) {
		last = s
	}))
	require.NoError(t, err)
	require.Equal(t, last.Best, best.Fitness)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	tour := randomTour(1, 5)

	cases := []struct {
		name   string
		params *genetic.Parameters
		err    error
	}{
		{"zero population", &genetic.Parameters{PopulationSize: 0, Generations: 1}, genetic.ErrInvalidPopulationSize},
		{"negative population", &genetic.Parameters{PopulationSize: -3, Generations: 1}, genetic.ErrInvalidPopulationSize},
		{"zero generations", &genetic.Parameters{PopulationSize: 4, Generations: 0}, genetic.ErrInvalidGenerations},
		{"mutation rate above one", &genetic.Parameters{PopulationSize: 4, Generations: 1, MutationRate: 1.5}, genetic.ErrInvalidRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := genetic.SolveTour(tour, tc.params, genetic.NewRand(1))
			require.ErrorIs(t, err, tc.err)
		})
	}

	_, err := genetic.SolveTour(tour, nil, nil)
	require.ErrorIs(t, err, genetic.ErrNilParameters)

	params := knapsackParams()
	params.TournamentSize = 0
	_, err = genetic.SolveKnapsack(classicKnapsack(), params, nil)
	require.ErrorIs(t, err, genetic.ErrInvalidTournamentSize)

	params = knapsackParams()
	params.CrossoverRate = -0.1
	_, err = genetic.SolveKnapsack(classicKnapsack(), params, nil)
	require.ErrorIs(t, err, genetic.ErrInvalidRate)

	_, err = genetic.SolveAllocation(&genetic.Allocation{}, knapsackParams(), nil)
	require.ErrorIs(t, err, genetic.ErrEmptyProblem)
}

func TestRun_TruncationPopulationOfOne(t *testing.T) {
	tour := &genetic.Tour{Cities: []genetic.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	a := &genetic.Allocation{
		Tasks:     []genetic.Task{{ID: 0, Cost: 50}},
		Resources: []genetic.Resource{{ID: 0, Capacity: 100}},
	}

	for _, generations := range []int{1, 2, 10} {
		params := &genetic.Parameters{PopulationSize: 1, Generations: generations, MutationRate: 0.5}

		best, err := genetic.SolveTour(tour, params, genetic.NewRand(int64(generations)))
		require.NoError(t, err)
		require.Equal(t, 20.0, best.Fitness)
		requirePermutation(t, best.Genes, 2)

		best, err = genetic.SolveAllocation(a, params, genetic.NewRand(int64(generations)))
		require.NoError(t, err)
		require.Equal(t, 50.0, best.Fitness)
		require.Equal(t, []int{0}, best.Genes)
	}
}

func TestRun_KnapsackPopulationOfOne(t *testing.T) {
	params := knapsackParams()
	params.PopulationSize = 1

	best, err := genetic.SolveKnapsack(classicKnapsack(), params, genetic.NewRand(6))
	require.NoError(t, err)
	require.Len(t, best.Genes, 3)
}
