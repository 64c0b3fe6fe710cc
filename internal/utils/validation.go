package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

// ValidateProblem 检查问题的类型和数据是否一致，以及数据本身是否合法
func ValidateProblem(problem *domain.Problem) error {
	present := 0
	for _, ok := range []bool{problem.Knapsack != nil, problem.Allocation != nil, problem.Tour != nil} {
		if ok {
			present++
		}
	}
	if present != 1 {
		return errors.New("问题必须且只能包含一种类型的数据")
	}

	switch problem.Kind {
	case domain.ProblemKindKnapsack:
		if problem.Knapsack == nil {
			return errors.New("背包问题缺少 knapsack 数据")
		}
		return validateKnapsack(problem.Knapsack)
	case domain.ProblemKindAllocation:
		if problem.Allocation == nil {
			return errors.New("任务分配问题缺少 allocation 数据")
		}
		return validateAllocation(problem.Allocation)
	case domain.ProblemKindTour:
		if problem.Tour == nil {
			return errors.New("旅行商问题缺少 tour 数据")
		}
		return validateTour(problem.Tour)
	default:
		return fmt.Errorf("未知的问题类型: %s", problem.Kind)
	}
}

func validateKnapsack(data *domain.KnapsackData) error {
	if len(data.Items) == 0 {
		return errors.New("背包问题至少需要一个物品")
	}
	if data.Capacity < 0 {
		return errors.New("背包容量不能为负数")
	}
	for i, item := range data.Items {
		if item.Weight < 0 || item.Value < 0 {
			return fmt.Errorf("第 %d 个物品的重量和价值不能为负数", i+1)
		}
	}
	return nil
}

func validateAllocation(data *domain.AllocationData) error {
	if len(data.Tasks) == 0 {
		return errors.New("任务分配问题至少需要一个任务")
	}
	if len(data.Resources) == 0 {
		return errors.New("任务分配问题至少需要一个资源")
	}

	seen := make(map[int]bool, len(data.Tasks))
	for _, task := range data.Tasks {
		if task.Cost < 0 {
			return fmt.Errorf("任务 %d 的耗时不能为负数", task.ID)
		}
		if seen[task.ID] {
			return fmt.Errorf("任务 ID %d 重复", task.ID)
		}
		seen[task.ID] = true
	}

	seen = make(map[int]bool, len(data.Resources))
	for _, resource := range data.Resources {
		if resource.Capacity < 0 {
			return fmt.Errorf("资源 %d 的容量不能为负数", resource.ID)
		}
		if seen[resource.ID] {
			return fmt.Errorf("资源 ID %d 重复", resource.ID)
		}
		seen[resource.ID] = true
	}

	return nil
}

func validateTour(data *domain.TourData) error {
	if len(data.Cities) == 0 {
		return errors.New("旅行商问题至少需要一个城市")
	}
	for i, city := range data.Cities {
		if math.IsNaN(city.X) || math.IsNaN(city.Y) || math.IsInf(city.X, 0) || math.IsInf(city.Y, 0) {
			return fmt.Errorf("第 %d 个城市的坐标无效", i+1)
		}
	}
	return nil
}

// ValidateRunParameters 在进入遗传算法之前检查服务端额外的限制
func ValidateRunParameters(params domain.RunParameters, maxPopulationSize, maxGenerations int) error {
	if params.PopulationSize > maxPopulationSize {
		return fmt.Errorf("种群大小不能超过 %d", maxPopulationSize)
	}
	if params.Generations > maxGenerations {
		return fmt.Errorf("迭代次数不能超过 %d", maxGenerations)
	}
	return nil
}
