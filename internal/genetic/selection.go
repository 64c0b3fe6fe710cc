package genetic

import "math/rand"

// TournamentSelect 锦标赛选择
// 有放回地从种群中均匀抽取 size 个个体，返回其中最优的一个
func TournamentSelect[G any](rng *rand.Rand, pop Population[G], size int, dir Direction) *Chromosome[G] {
	best := pop[rng.Intn(len(pop))]
	for i := 1; i < size; i++ {
		ch := pop[rng.Intn(len(pop))]
		if dir.Better(ch.Fitness, best.Fitness) {
			best = ch
		}
	}
	return best
}

// TruncateHalf 截断选择
// 按优化方向排序后保留较优的一半（向下取整，至少保留一个）；如果保留数量为奇数，则再追加一次最优个体使其成为偶数，
// 这个被复制的个体在配对时可能与自己成为一对父代
func TruncateHalf[G any](pop Population[G], dir Direction) Population[G] {
	sorted := make(Population[G], len(pop))
	copy(sorted, pop)
	sorted.Sort(dir)

	keep := max(1, len(pop)/2)
	selected := make(Population[G], 0, keep+1)
	selected = append(selected, sorted[:keep]...)

	if len(selected)%2 != 0 {
		selected = append(selected, selected[0])
	}

	return selected
}
