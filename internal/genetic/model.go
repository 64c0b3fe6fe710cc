package genetic

import (
	"errors"
	"fmt"
	"sort"
)

// Direction: 适应度的优化方向
type Direction int

const (
	Maximize Direction = iota // 越大越好（背包问题的价值）
	Minimize                  // 越小越好（负载不均衡度、路径长度）
)

// Better 判断适应度 a 是否严格优于 b
func (d Direction) Better(a, b float64) bool {
	if d == Maximize {
		return a > b
	}
	return a < b
}

// Kind: 编码方式
type Kind string

const (
	KindInclusion   Kind = "inclusion"   // 布尔向量，true 表示选中该物品
	KindAssignment  Kind = "assignment"  // 整数向量，值为分配到的资源下标
	KindPermutation Kind = "permutation" // 0..n-1 的排列，隐式首尾相连
)

// Strategy: 每一代的选择与替换方式
type Strategy int

const (
	StrategyTournament Strategy = iota // 锦标赛选父代，候选池截断保留
	StrategyTruncation                 // 截断保留较优的一半，两两配对后整体替换
)

// Chromosome: 基因组加上它的适应度
type Chromosome[G any] struct {
	Genes   G
	Fitness float64

	evaluated bool
}

// Evaluated 返回适应度是否已经根据当前基因计算过
func (c *Chromosome[G]) Evaluated() bool {
	return c.evaluated
}

// Population: 种群，顺序只在排序截断时有意义
type Population[G any] []*Chromosome[G]

// Sort 按照优化方向把较优的个体排到前面（稳定排序）
func (p Population[G]) Sort(dir Direction) {
	sort.SliceStable(p, func(i, j int) bool {
		return dir.Better(p[i].Fitness, p[j].Fitness)
	})
}

// Truncate 保留前 n 个个体
func (p Population[G]) Truncate(n int) Population[G] {
	if n >= len(p) {
		return p
	}
	return p[:n]
}

// Best 返回种群中最优的个体，并列时取靠前者
func (p Population[G]) Best(dir Direction) *Chromosome[G] {
	if len(p) == 0 {
		return nil
	}
	best := p[0]
	for _, ch := range p[1:] {
		if dir.Better(ch.Fitness, best.Fitness) {
			best = ch
		}
	}
	return best
}

// Parameters: 遗传算法参数
type Parameters struct {
	PopulationSize int     // 种群大小
	Generations    int     // 迭代次数，唯一的终止条件
	CrossoverRate  float64 // 交叉概率（只有布尔向量编码使用）
	MutationRate   float64 // 每个基因的变异概率
	TournamentSize int     // 锦标赛规模（只有锦标赛选择使用）
	Workers        int     // 并行计算适应度的协程数，<= 1 表示串行
	KeepBestEver   bool    // 是否保留历代最优个体作为结果
}

// DefaultParameters 返回一组可以直接使用的参数
func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 100,
		Generations:    100,
		CrossoverRate:  0.8,
		MutationRate:   0.01,
		TournamentSize: 3,
	}
}

var (
	ErrInvalidPopulationSize = errors.New("种群大小必须为正数")
	ErrInvalidGenerations    = errors.New("迭代次数必须为正数")
	ErrInvalidRate           = errors.New("概率必须在 [0, 1] 区间内")
	ErrInvalidTournamentSize = errors.New("锦标赛规模必须为正数")
	ErrEmptyProblem          = errors.New("问题实例为空")
	ErrInvalidProblem        = errors.New("问题实例不合法")
)

// Validate 检查参数是否合法，strategy 决定哪些参数会被用到
func (p *Parameters) Validate(strategy Strategy) error {
	if p.PopulationSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPopulationSize, p.PopulationSize)
	}
	if p.Generations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGenerations, p.Generations)
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("%w: 变异概率 %v", ErrInvalidRate, p.MutationRate)
	}

	if strategy == StrategyTournament {
		if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
			return fmt.Errorf("%w: 交叉概率 %v", ErrInvalidRate, p.CrossoverRate)
		}
		if p.TournamentSize <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidTournamentSize, p.TournamentSize)
		}
	}

	return nil
}

// GenerationStats: 某一代评估完成后的统计信息
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	Worst      float64
	Size       int
}
