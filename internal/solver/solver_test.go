package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/genetic"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/solver"
)

func TestSolve_Knapsack(t *testing.T) {
	problem := &domain.Problem{
		ID:   1,
		Kind: domain.ProblemKindKnapsack,
		Knapsack: &domain.KnapsackData{
			Capacity: 50,
			Items:    []domain.KnapsackItem{{Weight: 10, Value: 60}, {Weight: 20, Value: 100}, {Weight: 30, Value: 120}},
		},
	}
	params := domain.RunParameters{PopulationSize: 20, Generations: 50, CrossoverRate: 0.8, MutationRate: 0.05, Seed: 2}

	result, err := solver.New(nil, 1).Solve(problem, params)
	require.NoError(t, err)
	require.Equal(t, int64(2), result.Seed)
	require.True(t, result.Feasible)
	require.LessOrEqual(t, result.TotalWeight, 50)
	require.Len(t, result.History, params.Generations+1)

	value := 0
	for _, i := range result.SelectedItems {
		value += problem.Knapsack.Items[i].Value
	}
	require.Equal(t, float64(value), result.Fitness)
}

func TestSolve_SameSeedSameResult(t *testing.T) {
	problem := &domain.Problem{
		Kind: domain.ProblemKindTour,
		Tour: &domain.TourData{Cities: []domain.City{
			{X: 0, Y: 0}, {X: 10, Y: 3}, {X: 4, Y: 8}, {X: 7, Y: 1}, {X: 2, Y: 9}, {X: 6, Y: 6},
		}},
	}
	params := domain.RunParameters{PopulationSize: 12, Generations: 20, MutationRate: 0.05, Seed: 99}

	s := solver.New(nil, 2)
	first, err := s.Solve(problem, params)
	require.NoError(t, err)
	second, err := s.Solve(problem, params)
	require.NoError(t, err)

	require.Equal(t, first.Route, second.Route)
	require.Equal(t, first.Fitness, second.Fitness)
	require.Equal(t, first.History, second.History)
}

func TestSolve_ZeroSeedIsReplaced(t *testing.T) {
	problem := &domain.Problem{
		Kind: domain.ProblemKindTour,
		Tour: &domain.TourData{Cities: []domain.City{{X: 0, Y: 0}, {X: 10, Y: 0}}},
	}

	result, err := solver.New(nil, 1).Solve(problem, domain.RunParameters{PopulationSize: 2, Generations: 1})
	require.NoError(t, err)
	require.NotZero(t, result.Seed)
	require.Equal(t, 20.0, result.Fitness)
}

func TestSolve_AllocationReportsDroppedTasks(t *testing.T) {
	problem := &domain.Problem{
		Kind: domain.ProblemKindAllocation,
		Allocation: &domain.AllocationData{
			Tasks:     []domain.AllocationTask{{ID: 7, Cost: 80}, {ID: 8, Cost: 80}},
			Resources: []domain.AllocationResource{{ID: 0, Capacity: 100}},
		},
	}

	result, err := solver.New(nil, 1).Solve(problem, domain.RunParameters{PopulationSize: 4, Generations: 3, Seed: 1})
	require.NoError(t, err)

	// 只有一个资源，第二个任务一定放不下
	require.False(t, result.Feasible)
	require.Equal(t, []int{8}, result.DroppedTasks)
	require.Len(t, result.Assignments, 1)
	require.Equal(t, []int{7}, result.Assignments[0].TaskIDs)
	require.Equal(t, 80, result.Assignments[0].Load)
	require.Equal(t, 20.0, result.Fitness)
}

func TestSolve_Errors(t *testing.T) {
	s := solver.New(nil, 1)
	params := domain.RunParameters{PopulationSize: 4, Generations: 1, Seed: 1}

	_, err := s.Solve(&domain.Problem{Kind: "unknown"}, params)
	require.ErrorIs(t, err, solver.ErrUnknownKind)

	_, err = s.Solve(&domain.Problem{Kind: domain.ProblemKindTour}, params)
	require.ErrorIs(t, err, solver.ErrMissingData)

	_, err = s.Solve(&domain.Problem{Kind: domain.ProblemKindKnapsack, Knapsack: &domain.KnapsackData{Capacity: 1}}, params)
	require.ErrorIs(t, err, genetic.ErrEmptyProblem)

	_, err = s.Solve(&domain.Problem{
		Kind: domain.ProblemKindTour,
		Tour: &domain.TourData{Cities: []domain.City{{X: 1, Y: 1}}},
	}, domain.RunParameters{PopulationSize: 0, Generations: 1})
	require.ErrorIs(t, err, genetic.ErrInvalidPopulationSize)
}

func TestAssignments_KeepsResourceOrder(t *testing.T) {
	a := &genetic.Allocation{
		Tasks:     []genetic.Task{{ID: 0, Cost: 10}, {ID: 1, Cost: 20}, {ID: 2, Cost: 30}},
		Resources: []genetic.Resource{{ID: 0, Capacity: 40}, {ID: 1, Capacity: 40}},
	}

	assignments, dropped := solver.Assignments(a, []int{1, 0, 1})
	require.Empty(t, dropped)
	require.Equal(t, []domain.ResourceAssignment{
		{ResourceID: 0, Capacity: 40, Load: 20, TaskIDs: []int{1}},
		{ResourceID: 1, Capacity: 40, Load: 40, TaskIDs: []int{0, 2}},
	}, assignments)
}
