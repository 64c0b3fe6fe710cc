package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/repository"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/utils"
)

// ClassicKnapsack 容量 50，三个物品的经典背包问题
func ClassicKnapsack() *domain.Problem {
	return &domain.Problem{
		Name:        "经典背包问题",
		Description: "容量 50，三个物品",
		Kind:        domain.ProblemKindKnapsack,
		Knapsack: &domain.KnapsackData{
			Capacity: 50,
			Items: []domain.KnapsackItem{
				{Weight: 10, Value: 60},
				{Weight: 20, Value: 100},
				{Weight: 30, Value: 120},
			},
		},
	}
}

// ClassicAllocation 10 个任务，3 个资源
func ClassicAllocation(rng *rand.Rand) *domain.Problem {
	return &domain.Problem{
		Name:        "经典任务分配问题",
		Description: "10 个任务，3 个资源",
		Kind:        domain.ProblemKindAllocation,
		Allocation:  utils.GenerateRandomAllocation(rng, 10, 3),
	}
}

// ClassicTour 100 个随机城市
func ClassicTour(rng *rand.Rand) *domain.Problem {
	return &domain.Problem{
		Name:        "经典旅行商问题",
		Description: "100 个随机城市",
		Kind:        domain.ProblemKindTour,
		Tour:        utils.GenerateRandomTour(rng, 100),
	}
}

// DefaultParameters 返回每类问题推荐的默认参数
func DefaultParameters(kind domain.ProblemKind) domain.RunParameters {
	switch kind {
	case domain.ProblemKindKnapsack:
		return domain.RunParameters{PopulationSize: 10, Generations: 100, CrossoverRate: 0.8, MutationRate: 0.05, TournamentSize: 3}
	case domain.ProblemKindAllocation:
		return domain.RunParameters{PopulationSize: 100, Generations: 100, MutationRate: 0.01}
	case domain.ProblemKindTour:
		return domain.RunParameters{PopulationSize: 100, Generations: 1000, MutationRate: 0.01}
	default:
		return domain.RunParameters{}
	}
}

// ReadCities 读取 "名称,X,Y" 格式的 CSV，第一行为表头
func ReadCities(r io.Reader) ([]domain.City, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	cities := make([]domain.City, 0)
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		x, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("城市 %s 的 X 坐标无效: %w", row[0], err)
		}
		y, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("城市 %s 的 Y 坐标无效: %w", row[0], err)
		}

		cities = append(cities, domain.City{
			Name: utils.CityLabel(row[0]),
			X:    x,
			Y:    y,
		})
	}

	if len(cities) == 0 {
		return nil, errors.New("文件中没有城市")
	}

	return cities, nil
}

func SeedClassicProblems(r *repository.Repository, rng *rand.Rand) {
	for _, problem := range []*domain.Problem{ClassicKnapsack(), ClassicAllocation(rng), ClassicTour(rng)} {
		if err := r.CreateProblem(problem); err != nil {
			slog.Error("插入经典问题失败", "name", problem.Name, "error", err)
			continue
		}
		slog.Info("插入经典问题成功", "id", problem.ID, "name", problem.Name)
	}
}

func SeedCities(r *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	cities, err := ReadCities(file)
	if err != nil {
		slog.Error("读取城市失败", "error", err)
		return
	}

	problem := &domain.Problem{
		Name:        "广东城市巡回",
		Description: fmt.Sprintf("来自 %s 的 %d 个城市", path, len(cities)),
		Kind:        domain.ProblemKindTour,
		Tour:        &domain.TourData{Cities: cities},
	}
	if err := r.CreateProblem(problem); err != nil {
		slog.Error("插入问题失败", "error", err)
		return
	}

	slog.Info("插入数据完成", "id", problem.ID, "cities", len(cities))
}
