package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

// scanRun 需要的列顺序为 id, problem_id, status, parameters, result, error, notify_email, created_at, finished_at, version
func scanRun(scan func(dst ...any) error) (*domain.Run, error) {
	run := &domain.Run{}

	var (
		parameters []byte
		result     []byte
		errMsg     sql.NullString
		email      sql.NullString
		finishedAt sql.NullTime
	)

	dst := []any{&run.ID, &run.ProblemID, &run.Status, &parameters, &result, &errMsg, &email, &run.CreatedAt, &finishedAt, &run.Version}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(parameters, &run.Parameters); err != nil {
		return nil, err
	}
	if result != nil {
		run.Result = &domain.RunResult{}
		if err := json.Unmarshal(result, run.Result); err != nil {
			return nil, err
		}
	}
	run.Error = errMsg.String
	run.NotifyEmail = email.String
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return run, nil
}

func nullableJSON(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// CreateRun 插入一条运行记录。同步求解时记录创建时已经带有结果
func (r *Repository) CreateRun(run *domain.Run) error {
	parameters, err := json.Marshal(run.Parameters)
	if err != nil {
		return err
	}
	result, err := nullableJSON(run.Result, run.Result != nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO runs (problem_id, status, parameters, result, error, notify_email, finished_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{run.ProblemID, run.Status, string(parameters), result, run.Error, run.NotifyEmail, run.FinishedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&run.ID, &run.CreatedAt, &run.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRunByID(id int64) (*domain.Run, error) {
	query := `
		SELECT id, problem_id, status, parameters, result, error, notify_email, created_at, finished_at, version
		FROM runs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanRun(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) GetRunsByProblemID(problemID int64) ([]*domain.Run, error) {
	query := `
		SELECT id, problem_id, status, parameters, result, error, notify_email, created_at, finished_at, version
		FROM runs WHERE problem_id = $1 ORDER BY id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// MarkRunRunning 只在记录仍处于 pending 状态时更新，否则返回 sql.ErrNoRows，
// 这样同一条消息被重复投递时只会被处理一次
func (r *Repository) MarkRunRunning(run *domain.Run) error {
	query := `
		UPDATE runs SET status = $1, version = version + 1
		WHERE id = $2 AND status = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{domain.RunStatusRunning, run.ID, domain.RunStatusPending, run.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&run.Version); err != nil {
		return err
	}
	run.Status = domain.RunStatusRunning

	return nil
}

// FinishRun 写入运行的最终状态、结果和错误信息
func (r *Repository) FinishRun(run *domain.Run) error {
	result, err := nullableJSON(run.Result, run.Result != nil)
	if err != nil {
		return err
	}

	query := `
		UPDATE runs SET status = $1, result = $2, error = NULLIF($3, ''), finished_at = NOW(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING finished_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var finishedAt time.Time
	args := []any{run.Status, result, run.Error, run.ID, run.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&finishedAt, &run.Version); err != nil {
		return err
	}
	run.FinishedAt = &finishedAt

	return nil
}
