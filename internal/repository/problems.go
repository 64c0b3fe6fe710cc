package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

// problemData 返回问题对应类型的数据，作为 data 列存储
func problemData(p *domain.Problem) ([]byte, error) {
	switch p.Kind {
	case domain.ProblemKindKnapsack:
		return json.Marshal(p.Knapsack)
	case domain.ProblemKindAllocation:
		return json.Marshal(p.Allocation)
	case domain.ProblemKindTour:
		return json.Marshal(p.Tour)
	default:
		return nil, fmt.Errorf("未知的问题类型: %s", p.Kind)
	}
}

func decodeProblemData(p *domain.Problem, data []byte) error {
	switch p.Kind {
	case domain.ProblemKindKnapsack:
		p.Knapsack = &domain.KnapsackData{}
		return json.Unmarshal(data, p.Knapsack)
	case domain.ProblemKindAllocation:
		p.Allocation = &domain.AllocationData{}
		return json.Unmarshal(data, p.Allocation)
	case domain.ProblemKindTour:
		p.Tour = &domain.TourData{}
		return json.Unmarshal(data, p.Tour)
	default:
		return fmt.Errorf("未知的问题类型: %s", p.Kind)
	}
}

func (r *Repository) CreateProblem(problem *domain.Problem) error {
	data, err := problemData(problem)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO problems (name, description, kind, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{problem.Name, problem.Description, problem.Kind, string(data)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&problem.ID, &problem.CreatedAt, &problem.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetProblemByID(id int64) (*domain.Problem, error) {
	query := `
		SELECT name, description, kind, data, created_at, version
		FROM problems WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	problem := &domain.Problem{
		ID: id,
	}

	var data []byte
	dst := []any{&problem.Name, &problem.Description, &problem.Kind, &data, &problem.CreatedAt, &problem.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := decodeProblemData(problem, data); err != nil {
		return nil, err
	}

	return problem, nil
}

// GetAllProblems 只返回问题的元信息，不包含数据
func (r *Repository) GetAllProblems() ([]*domain.Problem, error) {
	query := `
		SELECT id, name, description, kind, created_at, version
		FROM problems ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	problems := make([]*domain.Problem, 0)
	for rows.Next() {
		problem := &domain.Problem{}
		dst := []any{&problem.ID, &problem.Name, &problem.Description, &problem.Kind, &problem.CreatedAt, &problem.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		problems = append(problems, problem)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return problems, nil
}

// DeleteProblem 会级联删除该问题的所有运行记录
func (r *Repository) DeleteProblem(id int64) error {
	query := `
		DELETE FROM problems WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
