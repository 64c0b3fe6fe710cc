package genetic

import (
	"fmt"
	"math/rand"
)

// Item: 背包问题中的物品
type Item struct {
	Weight int
	Value  int
}

// Knapsack: 背包问题实例
type Knapsack struct {
	Capacity int
	Items    []Item
}

func (k *Knapsack) Validate() error {
	if len(k.Items) == 0 {
		return fmt.Errorf("%w: 没有任何物品", ErrEmptyProblem)
	}
	if k.Capacity < 0 {
		return fmt.Errorf("%w: 背包容量不能为负数", ErrInvalidProblem)
	}
	for i, item := range k.Items {
		if item.Weight < 0 || item.Value < 0 {
			return fmt.Errorf("%w: 第 %d 个物品的重量或价值为负数", ErrInvalidProblem, i+1)
		}
	}
	return nil
}

// Totals 返回选中物品的总重量和总价值
func (k *Knapsack) Totals(genes []bool) (weight int, value int) {
	for i, included := range genes {
		if included {
			weight += k.Items[i].Weight
			value += k.Items[i].Value
		}
	}
	return weight, value
}

// KnapsackRepresentation 使用布尔向量编码背包问题
type KnapsackRepresentation struct {
	knapsack *Knapsack
}

func NewKnapsackRepresentation(k *Knapsack) (*KnapsackRepresentation, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return &KnapsackRepresentation{knapsack: k}, nil
}

func (r *KnapsackRepresentation) Kind() Kind           { return KindInclusion }
func (r *KnapsackRepresentation) Direction() Direction { return Maximize }
func (r *KnapsackRepresentation) Strategy() Strategy   { return StrategyTournament }

// Random 每个物品独立地以 0.5 的概率被选中
func (r *KnapsackRepresentation) Random(rng *rand.Rand) []bool {
	genes := make([]bool, len(r.knapsack.Items))
	for i := range genes {
		genes[i] = rng.Float64() < 0.5
	}
	return genes
}

// Evaluate 超重的解直接记为 0，不做部分惩罚
func (r *KnapsackRepresentation) Evaluate(genes []bool) float64 {
	weight, value := r.knapsack.Totals(genes)
	if weight > r.knapsack.Capacity {
		return 0
	}
	return float64(value)
}

func (r *KnapsackRepresentation) Crossover(rng *rand.Rand, params *Parameters, a, b []bool) ([]bool, []bool) {
	return SinglePointCrossover(rng, params.CrossoverRate, a, b)
}

func (r *KnapsackRepresentation) Mutate(rng *rand.Rand, params *Parameters, genes []bool) {
	FlipMutation(rng, params.MutationRate, genes)
}
