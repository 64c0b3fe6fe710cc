package genetic

import (
	"fmt"
	"math/rand"
)

// Task: 需要分配的工作项
type Task struct {
	ID   int
	Cost int
}

// Resource: 有容量上限的资源（处理器）
type Resource struct {
	ID       int
	Capacity int
}

// Allocation: 任务分配问题实例
type Allocation struct {
	Tasks     []Task
	Resources []Resource
}

func (a *Allocation) Validate() error {
	if len(a.Tasks) == 0 {
		return fmt.Errorf("%w: 没有任何任务", ErrEmptyProblem)
	}
	if len(a.Resources) == 0 {
		return fmt.Errorf("%w: 没有任何资源", ErrEmptyProblem)
	}
	for i, task := range a.Tasks {
		if task.Cost < 0 {
			return fmt.Errorf("%w: 第 %d 个任务的开销为负数", ErrInvalidProblem, i+1)
		}
	}
	for i, resource := range a.Resources {
		if resource.Capacity < 0 {
			return fmt.Errorf("%w: 第 %d 个资源的容量为负数", ErrInvalidProblem, i+1)
		}
	}
	return nil
}

// Loads 按基因顺序把任务放到对应资源上，返回每个资源的负载。
// 资源只在 当前负载 + 任务开销 <= 容量 时接收任务，否则该任务直接被丢弃，不计入任何资源
func (a *Allocation) Loads(genes []int) []int {
	loads := make([]int, len(a.Resources))
	for i, resource := range genes {
		cost := a.Tasks[i].Cost
		if loads[resource]+cost <= a.Resources[resource].Capacity {
			loads[resource] += cost
		}
	}
	return loads
}

// ResourceAssignment: 某个资源最终接收的任务
type ResourceAssignment struct {
	Resource Resource
	Tasks    []Task
	Load     int
}

// Assign 根据基因重新推导出每个资源的分配情况，与 Loads 使用同样的容量检查规则。
// 被丢弃的任务不会出现在任何资源中
func (a *Allocation) Assign(genes []int) []ResourceAssignment {
	result := make([]ResourceAssignment, len(a.Resources))
	for i, resource := range a.Resources {
		result[i] = ResourceAssignment{
			Resource: resource,
			Tasks:    []Task{},
		}
	}

	for i, idx := range genes {
		task := a.Tasks[i]
		if result[idx].Load+task.Cost <= result[idx].Resource.Capacity {
			result[idx].Tasks = append(result[idx].Tasks, task)
			result[idx].Load += task.Cost
		}
	}

	return result
}

// Imbalance 计算所有资源 |负载 - 容量| 之和
func (a *Allocation) Imbalance(genes []int) int {
	total := 0
	for i, load := range a.Loads(genes) {
		diff := load - a.Resources[i].Capacity
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total
}

// AllocationRepresentation 使用整数向量编码任务分配问题
type AllocationRepresentation struct {
	allocation *Allocation
}

func NewAllocationRepresentation(a *Allocation) (*AllocationRepresentation, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &AllocationRepresentation{allocation: a}, nil
}

func (r *AllocationRepresentation) Kind() Kind           { return KindAssignment }
func (r *AllocationRepresentation) Direction() Direction { return Minimize }
func (r *AllocationRepresentation) Strategy() Strategy   { return StrategyTruncation }

func (r *AllocationRepresentation) Random(rng *rand.Rand) []int {
	genes := make([]int, len(r.allocation.Tasks))
	for i := range genes {
		genes[i] = rng.Intn(len(r.allocation.Resources))
	}
	return genes
}

func (r *AllocationRepresentation) Evaluate(genes []int) float64 {
	return float64(r.allocation.Imbalance(genes))
}

// Crossover 不受交叉概率控制，每一对父代都会进行均匀交叉
func (r *AllocationRepresentation) Crossover(rng *rand.Rand, _ *Parameters, a, b []int) ([]int, []int) {
	return UniformCrossover(rng, a, b)
}

func (r *AllocationRepresentation) Mutate(rng *rand.Rand, params *Parameters, genes []int) {
	ResetMutation(rng, params.MutationRate, len(r.allocation.Resources), genes)
}
