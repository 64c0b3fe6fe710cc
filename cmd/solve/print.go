package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

func printResult(w io.Writer, problem *domain.Problem, result *domain.RunResult) error {
	var b strings.Builder

	switch problem.Kind {
	case domain.ProblemKindKnapsack:
		b.WriteString("最优解:\n")
		for _, i := range result.SelectedItems {
			item := problem.Knapsack.Items[i]
			fmt.Fprintf(&b, "物品 %d: 重量 = %d, 价值 = %d\n", i+1, item.Weight, item.Value)
		}
		fmt.Fprintf(&b, "总重量: %d / %d\n", result.TotalWeight, problem.Knapsack.Capacity)
		fmt.Fprintf(&b, "总价值: %g\n", result.Fitness)
	case domain.ProblemKindAllocation:
		for _, a := range result.Assignments {
			fmt.Fprintf(&b, "资源 %d (容量 %d, 负载 %d): 任务 %v\n", a.ResourceID, a.Capacity, a.Load, a.TaskIDs)
		}
		if len(result.DroppedTasks) > 0 {
			fmt.Fprintf(&b, "未分配的任务: %v\n", result.DroppedTasks)
		}
		fmt.Fprintf(&b, "负载差: %g\n", result.Fitness)
	case domain.ProblemKindTour:
		b.WriteString("最优路线:\n")
		names := make([]string, len(result.Route))
		for i, c := range result.Route {
			names[i] = fmt.Sprint(c)
			if name := problem.Tour.Cities[c].Name; name != "" {
				names[i] = name
			}
		}
		b.WriteString(strings.Join(names, " -> "))
		b.WriteString("\n")
		fmt.Fprintf(&b, "总距离: %.4f\n", result.Fitness)
	default:
		return fmt.Errorf("未知的问题类型: %s", problem.Kind)
	}

	fmt.Fprintf(&b, "可行: %t, 种子: %d, 耗时: %dms\n", result.Feasible, result.Seed, result.DurationMs)
	if n := len(result.History); n > 0 {
		fmt.Fprintf(&b, "收敛: 初始最优 %g, 最终最优 %g, 共 %d 次评估\n", result.History[0], result.History[n-1], n)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
