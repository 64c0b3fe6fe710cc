package genetic

import (
	"math/rand"
	"slices"
)

// SinglePointCrossover 单点交叉
// 以 rate 的概率在 [0, len) 中随机选择交叉点 c，
// 子代 1 = a[:c] + b[c:]，子代 2 = b[:c] + a[c:]；否则两个子代分别是父代的拷贝
func SinglePointCrossover(rng *rand.Rand, rate float64, a, b []bool) ([]bool, []bool) {
	c1 := make([]bool, len(a))
	c2 := make([]bool, len(b))

	if len(a) == 0 || rng.Float64() >= rate {
		copy(c1, a)
		copy(c2, b)
		return c1, c2
	}

	point := rng.Intn(len(a))
	for i := 0; i < point; i++ {
		c1[i] = a[i]
		c2[i] = b[i]
	}
	for i := point; i < len(a); i++ {
		c1[i] = b[i]
		c2[i] = a[i]
	}

	return c1, c2
}

// UniformCrossover 均匀交叉，每个位置独立地以 0.5 的概率交换两个父代的等位基因
func UniformCrossover(rng *rand.Rand, a, b []int) ([]int, []int) {
	c1 := make([]int, len(a))
	c2 := make([]int, len(b))

	for i := range a {
		if rng.Float64() < 0.5 {
			c1[i] = a[i]
			c2[i] = b[i]
		} else {
			c1[i] = b[i]
			c2[i] = a[i]
		}
	}

	return c1, c2
}

// OrderCrossover 保序交叉
// 子代 1 取 a 的前 c 个元素，再按 b 中的顺序补上前缀里没有出现过的元素，子代 2 对称构造。
// 两个父代都是 0..n-1 的排列时，子代也一定是排列
func OrderCrossover(rng *rand.Rand, a, b []int) ([]int, []int) {
	n := len(a)
	if n < 2 {
		return slices.Clone(a), slices.Clone(b)
	}

	// 交叉点取值 [1, n-1)，n == 2 时只能取 1
	point := 1
	if n > 2 {
		point = 1 + rng.Intn(n-2)
	}

	return orderedChild(a, b, point), orderedChild(b, a, point)
}

func orderedChild(head, tail []int, point int) []int {
	child := make([]int, 0, len(head))
	used := make([]bool, len(head))

	for _, city := range head[:point] {
		child = append(child, city)
		used[city] = true
	}
	for _, city := range tail {
		if !used[city] {
			child = append(child, city)
			used[city] = true
		}
	}

	return child
}

// FlipMutation 每个基因以 rate 的概率取反
func FlipMutation(rng *rand.Rand, rate float64, genes []bool) {
	for i := range genes {
		if rng.Float64() < rate {
			genes[i] = !genes[i]
		}
	}
}

// ResetMutation 每个基因以 rate 的概率重新随机分配到 [0, numResources) 中的某个资源（可能与原值相同）
func ResetMutation(rng *rand.Rand, rate float64, numResources int, genes []int) {
	for i := range genes {
		if rng.Float64() < rate {
			genes[i] = rng.Intn(numResources)
		}
	}
}

// SwapMutation 对每个位置 i，以 rate 的概率与随机位置 j 交换（j 可能等于 i）。
// 交换是原地顺序进行的，前面的交换会影响后面看到的内容
func SwapMutation(rng *rand.Rand, rate float64, genes []int) {
	for i := range genes {
		if rng.Float64() < rate {
			j := rng.Intn(len(genes))
			genes[i], genes[j] = genes[j], genes[i]
		}
	}
}

// randomPermutation 使用 Fisher-Yates 洗牌生成 0..n-1 的随机排列
func randomPermutation(rng *rand.Rand, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
