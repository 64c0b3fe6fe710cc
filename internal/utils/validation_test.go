package utils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/utils"
)

func TestValidateProblem(t *testing.T) {
	cases := []struct {
		name    string
		problem *domain.Problem
		ok      bool
	}{
		{
			name: "合法的背包问题",
			problem: &domain.Problem{Kind: domain.ProblemKindKnapsack, Knapsack: &domain.KnapsackData{
				Capacity: 10, Items: []domain.KnapsackItem{{Weight: 1, Value: 1}},
			}},
			ok: true,
		},
		{
			name:    "类型和数据不一致",
			problem: &domain.Problem{Kind: domain.ProblemKindTour, Knapsack: &domain.KnapsackData{Items: []domain.KnapsackItem{{}}}},
		},
		{
			name: "同时包含两种数据",
			problem: &domain.Problem{
				Kind:     domain.ProblemKindTour,
				Tour:     &domain.TourData{Cities: []domain.City{{}}},
				Knapsack: &domain.KnapsackData{Items: []domain.KnapsackItem{{}}},
			},
		},
		{
			name:    "没有数据",
			problem: &domain.Problem{Kind: domain.ProblemKindTour},
		},
		{
			name:    "负数重量",
			problem: &domain.Problem{Kind: domain.ProblemKindKnapsack, Knapsack: &domain.KnapsackData{Items: []domain.KnapsackItem{{Weight: -1}}}},
		},
		{
			name: "任务 ID 重复",
			problem: &domain.Problem{Kind: domain.ProblemKindAllocation, Allocation: &domain.AllocationData{
				Tasks:     []domain.AllocationTask{{ID: 1, Cost: 1}, {ID: 1, Cost: 2}},
				Resources: []domain.AllocationResource{{ID: 0, Capacity: 10}},
			}},
		},
		{
			name: "没有资源",
			problem: &domain.Problem{Kind: domain.ProblemKindAllocation, Allocation: &domain.AllocationData{
				Tasks: []domain.AllocationTask{{ID: 1, Cost: 1}},
			}},
		},
		{
			name:    "坐标为 NaN",
			problem: &domain.Problem{Kind: domain.ProblemKindTour, Tour: &domain.TourData{Cities: []domain.City{{X: math.NaN()}}}},
		},
		{
			name:    "未知类型",
			problem: &domain.Problem{Kind: "unknown", Tour: &domain.TourData{Cities: []domain.City{{}}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := utils.ValidateProblem(tc.problem)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestValidateRunParameters(t *testing.T) {
	require.NoError(t, utils.ValidateRunParameters(domain.RunParameters{PopulationSize: 10, Generations: 10}, 100, 100))
	require.Error(t, utils.ValidateRunParameters(domain.RunParameters{PopulationSize: 101, Generations: 10}, 100, 100))
	require.Error(t, utils.ValidateRunParameters(domain.RunParameters{PopulationSize: 10, Generations: 101}, 100, 100))
}
