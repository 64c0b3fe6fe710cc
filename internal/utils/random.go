package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

var cityCharacters = []string{
	"东", "西", "南", "北", "中", "安", "平", "宁", "阳", "江",
	"山", "河", "湖", "海", "州", "城", "林", "泉", "水", "川",
	"桥", "港", "岭", "原", "石", "沙", "新", "长", "清", "兴",
}

// GenerateRandomCityName 生成两到三个字的随机地名
func GenerateRandomCityName(rng *rand.Rand) string {
	length := rng.Intn(2) + 2
	name := ""
	for i := 0; i < length; i++ {
		name += cityCharacters[rng.Intn(len(cityCharacters))]
	}
	return name
}

// CityLabel 将中文地名转换为拼音标签，例如 "南山" -> "nan-shan"
func CityLabel(name string) string {
	return strings.Join(pinyin.LazyConvert(name, nil), "-")
}

// GenerateRandomKnapsack 物品重量在 [1, 30]，价值在 [1, 100]，容量约为总重量的一半
func GenerateRandomKnapsack(rng *rand.Rand, n int) *domain.KnapsackData {
	data := &domain.KnapsackData{
		Items: make([]domain.KnapsackItem, n),
	}

	total := 0
	for i := range data.Items {
		data.Items[i] = domain.KnapsackItem{
			Weight: rng.Intn(30) + 1,
			Value:  rng.Intn(100) + 1,
		}
		total += data.Items[i].Weight
	}
	data.Capacity = total / 2

	return data
}

// GenerateRandomAllocation 任务耗时在 [1, 100)，资源容量在 [100, 300)
func GenerateRandomAllocation(rng *rand.Rand, tasks, resources int) *domain.AllocationData {
	data := &domain.AllocationData{
		Tasks:     make([]domain.AllocationTask, tasks),
		Resources: make([]domain.AllocationResource, resources),
	}

	for i := range data.Tasks {
		data.Tasks[i] = domain.AllocationTask{ID: i, Cost: rng.Intn(99) + 1}
	}
	for i := range data.Resources {
		data.Resources[i] = domain.AllocationResource{ID: i, Capacity: rng.Intn(200) + 100}
	}

	return data
}

// GenerateRandomTour 城市坐标在 [0, 100) x [0, 100) 内均匀分布
func GenerateRandomTour(rng *rand.Rand, n int) *domain.TourData {
	data := &domain.TourData{
		Cities: make([]domain.City, n),
	}

	seen := make(map[string]bool, n)
	for i := range data.Cities {
		// 地名可能重复，重复时加上编号
		label := CityLabel(GenerateRandomCityName(rng))
		if seen[label] {
			label = fmt.Sprintf("%s-%d", label, i)
		}
		seen[label] = true

		data.Cities[i] = domain.City{
			Name: label,
			X:    rng.Float64() * 100,
			Y:    rng.Float64() * 100,
		}
	}

	return data
}

// GenerateRandomProblem 生成指定类型和规模的随机问题
func GenerateRandomProblem(rng *rand.Rand, kind domain.ProblemKind, size int) (*domain.Problem, error) {
	problem := &domain.Problem{
		Kind: kind,
	}

	switch kind {
	case domain.ProblemKindKnapsack:
		problem.Knapsack = GenerateRandomKnapsack(rng, size)
		problem.Name = fmt.Sprintf("随机背包问题-%s", GenerateRandomID(rng, 3, 3))
		problem.Description = fmt.Sprintf("%d 个物品，容量 %d", size, problem.Knapsack.Capacity)
	case domain.ProblemKindAllocation:
		// 资源数取任务数的五分之一，至少一个
		resources := max(size/5, 1)
		problem.Allocation = GenerateRandomAllocation(rng, size, resources)
		problem.Name = fmt.Sprintf("随机任务分配-%s", GenerateRandomID(rng, 3, 3))
		problem.Description = fmt.Sprintf("%d 个任务，%d 个资源", size, resources)
	case domain.ProblemKindTour:
		problem.Tour = GenerateRandomTour(rng, size)
		problem.Name = fmt.Sprintf("随机旅行商-%s", GenerateRandomID(rng, 3, 3))
		problem.Description = fmt.Sprintf("%d 个城市", size)
	default:
		return nil, fmt.Errorf("未知的问题类型: %s", kind)
	}

	return problem, nil
}

var digits = "0123456789"

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

var idLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(rng *rand.Rand, letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = idLetters[rng.Intn(len(idLetters))]
		} else {
			random_id[i] = rune(digits[rng.Intn(len(digits))])
		}
	}
	return string(random_id)
}
