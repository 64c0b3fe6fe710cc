package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/seed"
)

func TestMergeParameters(t *testing.T) {
	params := mergeParameters(domain.ProblemKindKnapsack, domain.RunParameters{CrossoverRate: -1, MutationRate: -1, Seed: 9})
	expected := seed.DefaultParameters(domain.ProblemKindKnapsack)
	expected.Seed = 9
	require.Equal(t, expected, params)

	params = mergeParameters(domain.ProblemKindTour, domain.RunParameters{PopulationSize: 7, Generations: 3, CrossoverRate: -1, MutationRate: 0, KeepBestEver: true})
	require.Equal(t, 7, params.PopulationSize)
	require.Equal(t, 3, params.Generations)
	require.Equal(t, 0.0, params.MutationRate)
	require.True(t, params.KeepBestEver)
}

func TestLoadProblem(t *testing.T) {
	problem, err := loadProblem(domain.ProblemKindKnapsack, 0, true, "", 1)
	require.NoError(t, err)
	require.Equal(t, 50, problem.Knapsack.Capacity)

	problem, err = loadProblem(domain.ProblemKindAllocation, 15, false, "", 1)
	require.NoError(t, err)
	require.Equal(t, 15, problem.Size())

	problem, err = loadProblem(domain.ProblemKindKnapsack, 0, false, "../../internal/seed/data/cities.csv", 1)
	require.NoError(t, err)
	require.Equal(t, domain.ProblemKindTour, problem.Kind)

	_, err = loadProblem("graph", 5, true, "", 1)
	require.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	problem := seed.ClassicKnapsack()
	result := &domain.RunResult{Fitness: 220, Feasible: true, Seed: 3, SelectedItems: []int{1, 2}, TotalWeight: 50, History: []float64{160, 220}}

	buf := &bytes.Buffer{}
	require.NoError(t, printResult(buf, problem, result))
	require.Contains(t, buf.String(), "物品 2: 重量 = 20, 价值 = 100")
	require.Contains(t, buf.String(), "总价值: 220")
	require.Contains(t, buf.String(), "初始最优 160, 最终最优 220")

	tour := &domain.Problem{Kind: domain.ProblemKindTour, Tour: &domain.TourData{Cities: []domain.City{{Name: "nan-shan"}, {}}}}
	buf.Reset()
	require.NoError(t, printResult(buf, tour, &domain.RunResult{Route: []int{1, 0}, Fitness: 20}))
	require.Contains(t, buf.String(), "1 -> nan-shan")

	allocation := &domain.Problem{Kind: domain.ProblemKindAllocation}
	buf.Reset()
	require.NoError(t, printResult(buf, allocation, &domain.RunResult{
		Assignments:  []domain.ResourceAssignment{{ResourceID: 0, Capacity: 100, Load: 80, TaskIDs: []int{7}}},
		DroppedTasks: []int{8},
	}))
	require.Contains(t, buf.String(), "资源 0 (容量 100, 负载 80): 任务 [7]")
	require.Contains(t, buf.String(), "未分配的任务: [8]")

	require.Error(t, printResult(buf, &domain.Problem{Kind: "graph"}, &domain.RunResult{}))
}
