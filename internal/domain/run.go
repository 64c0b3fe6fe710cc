package domain

import "time"

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

type RunParameters struct {
	PopulationSize int     `json:"populationSize"`
	Generations    int     `json:"generations"`
	CrossoverRate  float64 `json:"crossoverRate"`
	MutationRate   float64 `json:"mutationRate"`
	TournamentSize int     `json:"tournamentSize"`
	KeepBestEver   bool    `json:"keepBestEver"`
	Seed           int64   `json:"seed"` // 为 0 时由系统生成，实际使用的种子记录在结果中
}

type ResourceAssignment struct {
	ResourceID int   `json:"resourceID"`
	Capacity   int   `json:"capacity"`
	Load       int   `json:"load"`
	TaskIDs    []int `json:"taskIDs"`
}

type RunResult struct {
	Fitness  float64 `json:"fitness"`
	Feasible bool    `json:"feasible"`
	Seed     int64   `json:"seed"`

	// 背包问题
	SelectedItems []int `json:"selectedItems,omitempty"`
	TotalWeight   int   `json:"totalWeight,omitempty"`

	// 任务分配问题，DroppedTasks 为因超出容量而没有被任何资源接收的任务
	Assignments  []ResourceAssignment `json:"assignments,omitempty"`
	DroppedTasks []int                `json:"droppedTasks,omitempty"`

	// 旅行商问题
	Route []int `json:"route,omitempty"`

	History    []float64 `json:"history"` // 每次种群评估后的最优适应度
	DurationMs int64     `json:"durationMs"`
}

type Run struct {
	ID          int64         `json:"id"`
	ProblemID   int64         `json:"problemID"`
	Status      RunStatus     `json:"status"`
	Parameters  RunParameters `json:"parameters"`
	Result      *RunResult    `json:"result"`
	Error       string        `json:"error,omitempty"`
	NotifyEmail string        `json:"notifyEmail,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	FinishedAt  *time.Time    `json:"finishedAt"`
	Version     int32         `json:"-"`
}

// RunMessage: solve_queue 中的消息
type RunMessage struct {
	RunID int64 `json:"runID"`
}
