package genetic

import (
	"fmt"
	"math"
	"math/rand"
)

// Point: 平面上的城市坐标
type Point struct {
	X float64
	Y float64
}

func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Tour: 旅行商问题实例
type Tour struct {
	Cities []Point
}

func (t *Tour) Validate() error {
	if len(t.Cities) == 0 {
		return fmt.Errorf("%w: 没有任何城市", ErrEmptyProblem)
	}
	for i, city := range t.Cities {
		if math.IsNaN(city.X) || math.IsNaN(city.Y) || math.IsInf(city.X, 0) || math.IsInf(city.Y, 0) {
			return fmt.Errorf("%w: 第 %d 个城市的坐标不是有限数", ErrInvalidProblem, i+1)
		}
	}
	return nil
}

// Length 按照 order 访问所有城市并回到起点的总距离
func (t *Tour) Length(order []int) float64 {
	if len(order) == 0 {
		return 0
	}

	total := 0.0
	for i := 0; i < len(order)-1; i++ {
		total += t.Cities[order[i]].DistanceTo(t.Cities[order[i+1]])
	}
	// 回到第一个城市
	total += t.Cities[order[len(order)-1]].DistanceTo(t.Cities[order[0]])

	return total
}

// TourRepresentation 使用排列编码旅行商问题
type TourRepresentation struct {
	tour *Tour
}

func NewTourRepresentation(t *Tour) (*TourRepresentation, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &TourRepresentation{tour: t}, nil
}

func (r *TourRepresentation) Kind() Kind           { return KindPermutation }
func (r *TourRepresentation) Direction() Direction { return Minimize }
func (r *TourRepresentation) Strategy() Strategy   { return StrategyTruncation }

func (r *TourRepresentation) Random(rng *rand.Rand) []int {
	return randomPermutation(rng, len(r.tour.Cities))
}

func (r *TourRepresentation) Evaluate(genes []int) float64 {
	return r.tour.Length(genes)
}

func (r *TourRepresentation) Crossover(rng *rand.Rand, _ *Parameters, a, b []int) ([]int, []int) {
	return OrderCrossover(rng, a, b)
}

func (r *TourRepresentation) Mutate(rng *rand.Rand, params *Parameters, genes []int) {
	SwapMutation(rng, params.MutationRate, genes)
}
