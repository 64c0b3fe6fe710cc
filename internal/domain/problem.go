package domain

import "time"

type ProblemKind string

const (
	ProblemKindKnapsack   ProblemKind = "knapsack"   // 背包问题
	ProblemKindAllocation ProblemKind = "allocation" // 任务分配问题
	ProblemKindTour       ProblemKind = "tour"       // 旅行商问题
)

type KnapsackItem struct {
	Weight int `json:"weight"`
	Value  int `json:"value"`
}

type KnapsackData struct {
	Capacity int            `json:"capacity"`
	Items    []KnapsackItem `json:"items"`
}

type AllocationTask struct {
	ID   int `json:"id"`
	Cost int `json:"cost"`
}

type AllocationResource struct {
	ID       int `json:"id"`
	Capacity int `json:"capacity"`
}

type AllocationData struct {
	Tasks     []AllocationTask     `json:"tasks"`
	Resources []AllocationResource `json:"resources"`
}

type City struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type TourData struct {
	Cities []City `json:"cities"`
}

// Problem: 问题实例，根据 Kind 只有对应的一个数据字段非空
type Problem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        ProblemKind     `json:"kind"`
	Knapsack    *KnapsackData   `json:"knapsack,omitempty"`
	Allocation  *AllocationData `json:"allocation,omitempty"`
	Tour        *TourData       `json:"tour,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Version     int32           `json:"-"`
}

// Size 返回问题规模（物品数、任务数或城市数）
func (p *Problem) Size() int {
	switch p.Kind {
	case ProblemKindKnapsack:
		if p.Knapsack != nil {
			return len(p.Knapsack.Items)
		}
	case ProblemKindAllocation:
		if p.Allocation != nil {
			return len(p.Allocation.Tasks)
		}
	case ProblemKindTour:
		if p.Tour != nil {
			return len(p.Tour.Cities)
		}
	}
	return 0
}
