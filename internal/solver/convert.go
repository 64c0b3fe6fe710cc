package solver

import (
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/genetic"
)

func Knapsack(d *domain.KnapsackData) *genetic.Knapsack {
	k := &genetic.Knapsack{
		Capacity: d.Capacity,
		Items:    make([]genetic.Item, len(d.Items)),
	}
	for i, item := range d.Items {
		k.Items[i] = genetic.Item{Weight: item.Weight, Value: item.Value}
	}
	return k
}

func Allocation(d *domain.AllocationData) *genetic.Allocation {
	a := &genetic.Allocation{
		Tasks:     make([]genetic.Task, len(d.Tasks)),
		Resources: make([]genetic.Resource, len(d.Resources)),
	}
	for i, task := range d.Tasks {
		a.Tasks[i] = genetic.Task{ID: task.ID, Cost: task.Cost}
	}
	for i, resource := range d.Resources {
		a.Resources[i] = genetic.Resource{ID: resource.ID, Capacity: resource.Capacity}
	}
	return a
}

func Tour(d *domain.TourData) *genetic.Tour {
	t := &genetic.Tour{
		Cities: make([]genetic.Point, len(d.Cities)),
	}
	for i, city := range d.Cities {
		t.Cities[i] = genetic.Point{X: city.X, Y: city.Y}
	}
	return t
}

// Assignments 根据最优基因重新推导每个资源接收的任务，同时返回没有被任何资源接收的任务 ID
func Assignments(a *genetic.Allocation, genes []int) ([]domain.ResourceAssignment, []int) {
	assigned := make(map[int]bool, len(a.Tasks))
	result := make([]domain.ResourceAssignment, 0, len(a.Resources))

	for _, ra := range a.Assign(genes) {
		item := domain.ResourceAssignment{
			ResourceID: ra.Resource.ID,
			Capacity:   ra.Resource.Capacity,
			Load:       ra.Load,
			TaskIDs:    make([]int, 0, len(ra.Tasks)),
		}
		for _, task := range ra.Tasks {
			item.TaskIDs = append(item.TaskIDs, task.ID)
			assigned[task.ID] = true
		}
		result = append(result, item)
	}

	dropped := []int{}
	for _, task := range a.Tasks {
		if !assigned[task.ID] {
			dropped = append(dropped, task.ID)
		}
	}

	return result, dropped
}
