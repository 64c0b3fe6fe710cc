package genetic

import (
	"errors"
	"log/slog"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Representation: 某种编码方式及其遗传算子
type Representation[G any] interface {
	Kind() Kind
	Direction() Direction
	Strategy() Strategy
	Random(rng *rand.Rand) G
	Evaluate(genes G) float64
	Crossover(rng *rand.Rand, params *Parameters, a, b G) (G, G)
	Mutate(rng *rand.Rand, params *Parameters, genes G)
}

type options struct {
	logger   *slog.Logger
	observer func(GenerationStats)
}

type Option func(*options)

// WithLogger 指定输出每一代进度的 logger（Debug 级别）
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver 在每次种群评估完成后回调，第 0 次为初始种群，最后一次为终止前的评估
func WithObserver(fn func(GenerationStats)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// defaultSeed 在 seed 为 0 时使用，保证结果可复现
const defaultSeed int64 = 1

// NewRand 根据种子创建随机数发生器，seed 为 0 时使用固定的默认种子
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

var ErrNilParameters = errors.New("参数不能为空")

type engine[G any] struct {
	rep    Representation[G]
	params *Parameters
	rng    *rand.Rand
	opts   options

	// 历代最优个体，只在 KeepBestEver 时维护
	archive *Chromosome[G]
}

// Run 运行遗传算法并返回最终种群中的最优个体。
// 所有随机数都来自 rng，同一个种子、同一组参数会得到同样的结果。
// 默认不记录历代最优：中间代出现过的更优解如果被淘汰就会丢失；设置 KeepBestEver 后返回历代最优
func Run[G any](rep Representation[G], params *Parameters, rng *rand.Rand, opts ...Option) (*Chromosome[G], error) {
	if params == nil {
		return nil, ErrNilParameters
	}
	if err := params.Validate(rep.Strategy()); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(0)
	}

	e := &engine[G]{
		rep:    rep,
		params: params,
		rng:    rng,
		opts: options{
			logger: slog.Default(),
		},
	}
	for _, opt := range opts {
		opt(&e.opts)
	}

	// 生成初始种群
	pop := make(Population[G], params.PopulationSize)
	for i := range pop {
		pop[i] = &Chromosome[G]{Genes: rep.Random(rng)}
	}

	// 迭代
	for gen := 0; gen < params.Generations; gen++ {
		e.evaluate(pop)
		e.record(gen, pop)

		switch rep.Strategy() {
		case StrategyTournament:
			pop = e.tournamentGeneration(pop)
		case StrategyTruncation:
			pop = e.truncationGeneration(pop)
		}
	}

	// 终止前再评估一次
	e.evaluate(pop)
	e.record(params.Generations, pop)

	best := pop.Best(rep.Direction())
	if e.archive != nil && rep.Direction().Better(e.archive.Fitness, best.Fitness) {
		return e.archive, nil
	}
	return best, nil
}

// evaluate 计算所有还没有适应度的个体。
// 基因在评估之后不会再被修改，因此并行评估时每个协程看到的都是完整的基因快照
func (e *engine[G]) evaluate(pop Population[G]) {
	pending := make([]*Chromosome[G], 0, len(pop))
	for _, ch := range pop {
		if !ch.evaluated {
			pending = append(pending, ch)
		}
	}

	if e.params.Workers <= 1 || len(pending) < 2 {
		for _, ch := range pending {
			ch.Fitness = e.rep.Evaluate(ch.Genes)
			ch.evaluated = true
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(e.params.Workers)
	for _, ch := range pending {
		g.Go(func() error {
			ch.Fitness = e.rep.Evaluate(ch.Genes)
			ch.evaluated = true
			return nil
		})
	}
	_ = g.Wait()
}

// record 统计本代信息，通知观察者并更新历代最优
func (e *engine[G]) record(gen int, pop Population[G]) {
	dir := e.rep.Direction()
	best := pop.Best(dir)

	stats := GenerationStats{
		Generation: gen,
		Best:       best.Fitness,
		Worst:      best.Fitness,
		Size:       len(pop),
	}
	sum := 0.0
	for _, ch := range pop {
		sum += ch.Fitness
		if dir.Better(stats.Worst, ch.Fitness) {
			stats.Worst = ch.Fitness
		}
	}
	stats.Mean = sum / float64(len(pop))

	e.opts.logger.Debug("完成种群评估", "generation", gen, "best", stats.Best, "mean", stats.Mean, "worst", stats.Worst)

	if e.opts.observer != nil {
		e.opts.observer(stats)
	}

	if e.params.KeepBestEver && (e.archive == nil || dir.Better(best.Fitness, e.archive.Fitness)) {
		e.archive = best
	}
}

// tournamentGeneration 不断用锦标赛选出两个父代并产生两个子代，直到候选池大小不小于种群大小，
// 然后只在候选池中按适应度截断（旧种群不参与）
func (e *engine[G]) tournamentGeneration(pop Population[G]) Population[G] {
	size := e.params.PopulationSize
	dir := e.rep.Direction()

	candidates := make(Population[G], 0, size+1)
	for len(candidates) < size {
		p1 := TournamentSelect(e.rng, pop, e.params.TournamentSize, dir)
		p2 := TournamentSelect(e.rng, pop, e.params.TournamentSize, dir)

		c1, c2 := e.rep.Crossover(e.rng, e.params, p1.Genes, p2.Genes)
		e.rep.Mutate(e.rng, e.params, c1)
		e.rep.Mutate(e.rng, e.params, c2)

		candidates = append(candidates, &Chromosome[G]{Genes: c1}, &Chromosome[G]{Genes: c2})
	}

	e.evaluate(candidates)
	candidates.Sort(dir)

	return candidates.Truncate(size)
}

// truncationGeneration 保留较优的一半，按 [0,1], [2,3], ... 顺序配对产生子代，子代整体替换旧种群。
// 配对用完之后从头循环，直到子代数量达到种群大小，因此同一对父代可能产生不止两个子代。
// 种群只有一个个体时，最优个体与自己配对
func (e *engine[G]) truncationGeneration(pop Population[G]) Population[G] {
	size := e.params.PopulationSize
	selected := TruncateHalf(pop, e.rep.Direction())

	next := make(Population[G], 0, size)
	for i := 0; len(next) < size; i = (i + 2) % len(selected) {
		p1 := selected[i]
		p2 := selected[i+1]

		c1, c2 := e.rep.Crossover(e.rng, e.params, p1.Genes, p2.Genes)
		e.rep.Mutate(e.rng, e.params, c1)
		e.rep.Mutate(e.rng, e.params, c2)

		next = append(next, &Chromosome[G]{Genes: c1})
		if len(next) < size {
			next = append(next, &Chromosome[G]{Genes: c2})
		}
	}

	return next
}

// SolveKnapsack 用布尔向量编码求解背包问题
func SolveKnapsack(k *Knapsack, params *Parameters, rng *rand.Rand, opts ...Option) (*Chromosome[[]bool], error) {
	rep, err := NewKnapsackRepresentation(k)
	if err != nil {
		return nil, err
	}
	return Run[[]bool](rep, params, rng, opts...)
}

// SolveAllocation 用整数向量编码求解任务分配问题
func SolveAllocation(a *Allocation, params *Parameters, rng *rand.Rand, opts ...Option) (*Chromosome[[]int], error) {
	rep, err := NewAllocationRepresentation(a)
	if err != nil {
		return nil, err
	}
	return Run[[]int](rep, params, rng, opts...)
}

// SolveTour 用排列编码求解旅行商问题
func SolveTour(t *Tour, params *Parameters, rng *rand.Rand, opts ...Option) (*Chromosome[[]int], error) {
	rep, err := NewTourRepresentation(t)
	if err != nil {
		return nil, err
	}
	return Run[[]int](rep, params, rng, opts...)
}
